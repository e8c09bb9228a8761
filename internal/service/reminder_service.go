package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/staffclock/attendance-service/internal/domain"
	"github.com/staffclock/attendance-service/internal/gateway"
	"github.com/staffclock/attendance-service/internal/repository"
	apperrors "github.com/staffclock/attendance-service/pkg/util/errorutil"
)

// ReminderOutcome summarizes one broadcast run.
type ReminderOutcome struct {
	Pending    int
	Dispatched int
	Delivered  bool
}

// ReminderService broadcasts the check-in reminder to staff who have not checked in.
type ReminderService struct {
	profiles     repository.ProfileRepository
	gateway      gateway.NotificationGateway
	notification domain.Notification
	logger       *zap.Logger
}

// NewReminderService constructs the service.
func NewReminderService(profiles repository.ProfileRepository, gw gateway.NotificationGateway, notification domain.Notification, logger *zap.Logger) *ReminderService {
	return &ReminderService{
		profiles:     profiles,
		gateway:      gw,
		notification: notification,
		logger:       logger,
	}
}

// RunDailyReminder sends one batched push to every pending profile with a token.
// Empty result sets and gateway failures are not errors; only a failed profile
// query is returned.
func (s *ReminderService) RunDailyReminder(ctx context.Context) (ReminderOutcome, error) {
	var outcome ReminderOutcome

	notCheckedIn := false
	pending, err := s.profiles.List(ctx, repository.ProfileFilter{IsCheckedIn: &notCheckedIn})
	if err != nil {
		s.logger.Error("query pending profiles failed", zap.Error(err))
		return outcome, apperrors.NewInternalError(err)
	}
	outcome.Pending = len(pending)
	if len(pending) == 0 {
		s.logger.Info("no staff pending check-in; nothing to send")
		return outcome, nil
	}

	tokens := make([]string, 0, len(pending))
	for i := range pending {
		if pending[i].HasNotificationToken() {
			tokens = append(tokens, *pending[i].NotificationToken)
		}
	}
	if len(tokens) == 0 {
		s.logger.Info("no notification tokens among pending staff; nothing to send",
			zap.Int("pending", len(pending)))
		return outcome, nil
	}

	outcome.Dispatched = len(tokens)
	if err := s.gateway.SendToMany(ctx, tokens, s.notification); err != nil {
		s.logger.Error("reminder dispatch failed",
			zap.Int("tokens", len(tokens)),
			zap.Error(err))
		return outcome, nil
	}

	outcome.Delivered = true
	s.logger.Info("reminder dispatched",
		zap.Int("pending", len(pending)),
		zap.Int("tokens", len(tokens)))
	return outcome, nil
}
