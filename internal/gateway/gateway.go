package gateway

import (
	"context"

	"github.com/staffclock/attendance-service/internal/domain"
)

// NotificationGateway delivers one payload to many device tokens in a single batched call.
// Per-token outcomes are the gateway's concern; only whole-call failure is reported.
type NotificationGateway interface {
	SendToMany(ctx context.Context, tokens []string, notification domain.Notification) error
}
