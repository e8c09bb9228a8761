// Command reminder sends the daily check-in reminder once and exits.
// It is meant to be fired by an external scheduler at REMINDER_AT in REMINDER_TIMEZONE.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/staffclock/attendance-service/internal/bootstrap"
	"github.com/staffclock/attendance-service/internal/config"
	"github.com/staffclock/attendance-service/internal/domain"
	"github.com/staffclock/attendance-service/internal/observability"
	"github.com/staffclock/attendance-service/internal/service"
	"github.com/staffclock/attendance-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("reminder failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	backends, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backends.Close()

	broadcaster := service.NewReminderService(backends.Profiles, backends.Push, domain.Notification{
		Title: cfg.Reminder.Title,
		Body:  cfg.Reminder.Body,
	}, logger)

	return worker.NewReminderWorker(broadcaster, cfg.Reminder, logger).RunOnce(ctx)
}
