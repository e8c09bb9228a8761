package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/staffclock/attendance-service/internal/api/dto"
	apperrors "github.com/staffclock/attendance-service/pkg/util/errorutil"
)

// Authenticator issues bearer tokens.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, time.Time, error)
}

// AuthHandler exposes login.
type AuthHandler struct {
	auth Authenticator
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authenticator Authenticator) *AuthHandler {
	return &AuthHandler{auth: authenticator}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewInvalidArgument("email and password required", nil)
	}

	token, exp, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}
