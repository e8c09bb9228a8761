package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/staffclock/attendance-service/internal/config"
	"github.com/staffclock/attendance-service/internal/service"
)

// Broadcaster runs one reminder broadcast.
type Broadcaster interface {
	RunDailyReminder(ctx context.Context) (service.ReminderOutcome, error)
}

// ReminderWorker adapts the external daily trigger to a single broadcast run.
// It does not schedule; the trigger fires it once per configured slot.
type ReminderWorker struct {
	broadcaster Broadcaster
	cfg         config.ReminderConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewReminderWorker constructs the worker.
func NewReminderWorker(broadcaster Broadcaster, cfg config.ReminderConfig, logger *zap.Logger) *ReminderWorker {
	return &ReminderWorker{broadcaster: broadcaster, cfg: cfg, logger: logger, now: time.Now}
}

// RunOnce executes a single broadcast bounded by the configured timeout.
func (w *ReminderWorker) RunOnce(ctx context.Context) error {
	if timeout := w.cfg.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	fields := []zap.Field{zap.String("scheduled_at", w.cfg.At), zap.String("timezone", w.cfg.Timezone)}
	if slot, err := w.slot(); err == nil {
		fields = append(fields, zap.Time("slot", slot))
	}
	w.logger.Info("reminder run started", fields...)

	start := w.now()
	outcome, err := w.broadcaster.RunDailyReminder(ctx)
	if err != nil {
		w.logger.Error("reminder run failed", zap.Error(err))
		return err
	}

	w.logger.Info("reminder run finished",
		zap.Int("pending", outcome.Pending),
		zap.Int("dispatched", outcome.Dispatched),
		zap.Bool("delivered", outcome.Delivered),
		zap.Duration("duration", w.now().Sub(start)))
	return nil
}

// slot returns today's scheduled instant in the configured timezone.
func (w *ReminderWorker) slot() (time.Time, error) {
	offset, loc, err := w.cfg.Slot()
	if err != nil {
		return time.Time{}, err
	}
	now := w.now().In(loc)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	return midnight.Add(offset), nil
}
