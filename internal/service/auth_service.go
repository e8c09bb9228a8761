package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/staffclock/attendance-service/internal/auth"
	"github.com/staffclock/attendance-service/internal/config"
	"github.com/staffclock/attendance-service/internal/repository"
	apperrors "github.com/staffclock/attendance-service/pkg/util/errorutil"
)

// AuthService issues bearer tokens for identities.
type AuthService struct {
	identities repository.IdentityRepository
	tokenMgr   *auth.TokenManager
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, identities repository.IdentityRepository, logger *zap.Logger) *AuthService {
	return &AuthService{
		identities: identities,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		logger:     logger,
	}
}

// Login authenticates an identity by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	identity, err := s.identities.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", time.Time{}, apperrors.NewUnauthenticated("invalid credentials")
		}
		s.logger.Error("load identity failed", zap.Error(err))
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	if identity.Disabled {
		return "", time.Time{}, apperrors.NewPermissionDenied("account disabled")
	}
	if err := auth.ComparePassword(identity.PasswordHash, password); err != nil {
		return "", time.Time{}, apperrors.NewUnauthenticated("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(identity.ID, identity.Email)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
