package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/staffclock/attendance-service/internal/api/dto"
	"github.com/staffclock/attendance-service/internal/auth"
	"github.com/staffclock/attendance-service/internal/service"
	apperrors "github.com/staffclock/attendance-service/pkg/util/errorutil"
)

// Provisioner creates staff accounts on behalf of a caller.
type Provisioner interface {
	Provision(ctx context.Context, callerID string, in service.ProvisionInput) (*service.ProvisionResult, error)
}

// StaffHandler exposes staff account endpoints.
type StaffHandler struct {
	provisioner Provisioner
}

// NewStaffHandler constructs handler.
func NewStaffHandler(provisioner Provisioner) *StaffHandler {
	return &StaffHandler{provisioner: provisioner}
}

// Create handles POST /staff.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}

	res, err := h.provisioner.Provision(c.UserContext(), auth.CallerIDFromContext(c), service.ProvisionInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		EmployeeID:  req.EmployeeID,
		Position:    req.Position,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.CreateStaffResponse{UID: res.IdentityID, Message: res.Message},
	})
}
