package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aidar/nexus-api/internal/domain"
	"github.com/aidar/nexus-api/internal/repository"
)

// Publisher pushes delivered notifications to connected clients
type Publisher interface {
	Publish(ctx context.Context, n *domain.Notification) error
}

// DispatcherConfig controls outbox polling and retries
type DispatcherConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	BaseBackoff  time.Duration
	MaxBackoff   time.Duration
}

// Dispatcher moves notification events from the outbox into user mailboxes
type Dispatcher struct {
	outbox    repository.OutboxRepository
	publisher Publisher
	cfg       DispatcherConfig
	logger    *slog.Logger
	wake      chan struct{}
}

// NewDispatcher creates a new Dispatcher. publisher may be nil.
func NewDispatcher(outbox repository.OutboxRepository, publisher Publisher, cfg DispatcherConfig, logger *slog.Logger) *Dispatcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 8
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = time.Second
	}
	if cfg.MaxBackoff < cfg.BaseBackoff {
		cfg.MaxBackoff = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		outbox:    outbox,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		wake:      make(chan struct{}, 1),
	}
}

// Wake schedules an immediate delivery pass without blocking
func (d *Dispatcher) Wake() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Run delivers events until ctx is cancelled
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	d.logger.Info("notification dispatcher started",
		slog.Duration("poll_interval", d.cfg.PollInterval),
		slog.Int("batch_size", d.cfg.BatchSize),
	)

	for {
		d.drain(ctx)

		select {
		case <-ctx.Done():
			d.logger.Info("notification dispatcher stopped")
			return
		case <-ticker.C:
		case <-d.wake:
		}
	}
}

// drain runs passes while full batches keep coming back
func (d *Dispatcher) drain(ctx context.Context) {
	for ctx.Err() == nil {
		report, err := d.RunOnce(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				d.logger.Error("notification delivery pass failed", slog.String("error", err.Error()))
			}
			return
		}
		processed := len(report.Delivered) + len(report.Dropped) + len(report.Retried)
		if processed < d.cfg.BatchSize {
			return
		}
	}
}

// RunOnce performs a single delivery pass and publishes what was delivered
func (d *Dispatcher) RunOnce(ctx context.Context) (*repository.DeliveryReport, error) {
	report, err := d.outbox.DeliverPending(ctx, d.cfg.BatchSize, d.cfg.MaxAttempts, d.Backoff)
	if err != nil {
		return nil, err
	}

	for _, failed := range report.Dropped {
		attrs := []any{
			slog.String("event_id", failed.Event.EventID),
			slog.String("user_id", failed.Event.UserID),
			slog.Int("attempts", failed.Event.Attempts),
			slog.String("error", failed.Err.Error()),
		}
		if errors.Is(failed.Err, domain.ErrUserNotFound) {
			d.logger.Warn("notification dropped: recipient no longer exists", attrs...)
		} else {
			d.logger.Error("notification dropped after max attempts", attrs...)
		}
	}

	for _, failed := range report.Retried {
		d.logger.Warn("notification delivery failed, will retry",
			slog.String("event_id", failed.Event.EventID),
			slog.Int("attempts", failed.Event.Attempts),
			slog.String("error", failed.Err.Error()),
		)
	}

	for _, n := range report.Delivered {
		d.logger.Debug("notification delivered",
			slog.String("notification_id", n.NotificationID),
			slog.String("user_id", n.UserID),
		)
		if d.publisher == nil {
			continue
		}
		// The mailbox row is already committed; a failed push only affects live clients
		if err := d.publisher.Publish(ctx, n); err != nil {
			d.logger.Warn("failed to publish notification",
				slog.String("notification_id", n.NotificationID),
				slog.String("error", err.Error()),
			)
		}
	}

	return report, nil
}

// Backoff returns the retry delay after the given number of failed attempts
func (d *Dispatcher) Backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	delay := d.cfg.BaseBackoff
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= d.cfg.MaxBackoff {
			return d.cfg.MaxBackoff
		}
	}
	return delay
}
