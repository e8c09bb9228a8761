package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/staffclock/attendance-service/internal/domain"
	"github.com/staffclock/attendance-service/internal/repository"
	apperrors "github.com/staffclock/attendance-service/pkg/util/errorutil"
)

// ProvisionInput carries the caller-supplied fields for a new staff account.
type ProvisionInput struct {
	Email       string
	Password    string
	DisplayName string
	EmployeeID  string
	Position    string
}

// ProvisionResult is returned on success.
type ProvisionResult struct {
	IdentityID string
	Message    string
}

// ProvisioningService creates staff accounts on behalf of admins.
type ProvisioningService struct {
	identities repository.IdentityRepository
	profiles   repository.ProfileRepository
	logger     *zap.Logger
}

// ProvisioningDependencies encapsulates the stores the provisioner writes to.
type ProvisioningDependencies struct {
	IdentityRepo repository.IdentityRepository
	ProfileRepo  repository.ProfileRepository
}

// NewProvisioningService constructs the service.
func NewProvisioningService(deps ProvisioningDependencies, logger *zap.Logger) *ProvisioningService {
	return &ProvisioningService{
		identities: deps.IdentityRepo,
		profiles:   deps.ProfileRepo,
		logger:     logger,
	}
}

// Provision authorizes the caller, validates input, then creates the identity
// and its profile. The two writes are not transactional: a failed profile
// write leaves the identity in place and is reported as internal.
func (s *ProvisioningService) Provision(ctx context.Context, callerID string, in ProvisionInput) (*ProvisionResult, error) {
	if err := s.authorize(ctx, callerID); err != nil {
		return nil, err
	}
	if err := validateProvisionInput(in); err != nil {
		return nil, err
	}

	identityID, err := s.identities.CreateAccount(ctx, repository.AccountParams{
		Email:       in.Email,
		Password:    in.Password,
		DisplayName: in.DisplayName,
		Disabled:    false,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, apperrors.NewAlreadyExists("This email is already in use by another account.")
		}
		s.logger.Error("create identity failed",
			zap.String("caller_id", callerID),
			zap.String("email", in.Email),
			zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	profile := &domain.Profile{
		Email:          in.Email,
		DisplayName:    in.DisplayName,
		EmployeeID:     in.EmployeeID,
		Position:       in.Position,
		Role:           domain.RoleStaff,
		AccountEnabled: true,
		IsCheckedIn:    false,
	}
	if err := s.profiles.SetByID(ctx, identityID, profile); err != nil {
		s.logger.Error("create profile failed; identity left without profile",
			zap.String("caller_id", callerID),
			zap.String("identity_id", identityID),
			zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("staff account provisioned",
		zap.String("caller_id", callerID),
		zap.String("identity_id", identityID))

	return &ProvisionResult{
		IdentityID: identityID,
		Message:    fmt.Sprintf("Successfully created user: %s", in.DisplayName),
	}, nil
}

func (s *ProvisioningService) authorize(ctx context.Context, callerID string) error {
	if strings.TrimSpace(callerID) == "" {
		return apperrors.NewUnauthenticated("You must be logged in to create a user.")
	}

	caller, err := s.profiles.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewPermissionDenied("You do not have permission to perform this action.")
		}
		s.logger.Error("load caller profile failed", zap.String("caller_id", callerID), zap.Error(err))
		return apperrors.NewInternalError(err)
	}
	if !caller.IsAdmin() {
		return apperrors.NewPermissionDenied("You do not have permission to perform this action.")
	}
	return nil
}

func validateProvisionInput(in ProvisionInput) error {
	fields := []struct {
		name  string
		value string
	}{
		{"email", in.Email},
		{"password", in.Password},
		{"displayName", in.DisplayName},
		{"employeeId", in.EmployeeID},
		{"position", in.Position},
	}

	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewInvalidArgument("Please fill out all required fields.", map[string]any{"missing": missing})
	}
	return nil
}
