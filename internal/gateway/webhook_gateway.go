package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/staffclock/attendance-service/internal/domain"
)

type multicastRequest struct {
	RegistrationIDs []string            `json:"registration_ids"`
	Notification    domain.Notification `json:"notification"`
}

// WebhookGateway posts multicast requests to an HTTP push endpoint.
type WebhookGateway struct {
	endpoint  string
	serverKey string
	timeout   time.Duration
}

// NewWebhookGateway builds a gateway for the given endpoint.
func NewWebhookGateway(endpoint, serverKey string, timeout time.Duration) *WebhookGateway {
	return &WebhookGateway{endpoint: endpoint, serverKey: serverKey, timeout: timeout}
}

// SendToMany posts one multicast request. Non-2xx responses are failures.
func (g *WebhookGateway) SendToMany(ctx context.Context, tokens []string, notification domain.Notification) error {
	if g.endpoint == "" {
		return errors.New("push endpoint not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := g.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}

	agent := fiber.Post(g.endpoint)
	if g.serverKey != "" {
		agent.Set(fiber.HeaderAuthorization, "key="+g.serverKey)
	}
	if timeout > 0 {
		agent.Timeout(timeout)
	}
	agent.JSON(multicastRequest{RegistrationIDs: tokens, Notification: notification})

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("push request: %w", errors.Join(errs...))
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return fmt.Errorf("push gateway returned status %d: %s", code, body)
	}
	return nil
}
