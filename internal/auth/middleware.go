package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/staffclock/attendance-service/pkg/util/errorutil"
)

const callerIDKey = "auth_caller_id"

// AuthMiddleware validates bearer tokens and attaches the caller id.
// It does not load profiles; authorization is decided per operation.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthenticated("authentication required")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthenticated("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthenticated("invalid token")
	}

	c.Locals(callerIDKey, claims.Subject)
	return c.Next()
}

// CallerIDFromContext returns the authenticated caller id, or "" when absent.
func CallerIDFromContext(c *fiber.Ctx) string {
	id, _ := c.Locals(callerIDKey).(string)
	return id
}
