package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/watergb/billing-system/internal/core/domain"
	"github.com/watergb/billing-system/internal/core/ports"
)

const defaultInterval = time.Hour

// PeriodMarker records billing periods that already ran, so a daily trigger
// does not re-run a completed month. Backed by Redis in production.
type PeriodMarker interface {
	AlreadyRan(ctx context.Context, period string) (bool, error)
	Mark(ctx context.Context, period string) error
}

// Scheduler periodically asks the billing engine whether a cycle is due and
// runs it. It replaces the external cron the original deployment relied on;
// the manual admin endpoint shares the same BillingService.Run path.
type Scheduler struct {
	billing  ports.BillingService
	marker   PeriodMarker
	interval time.Duration
	loc      *time.Location
	now      func() time.Time
	log      zerolog.Logger
}

func New(billing ports.BillingService, marker PeriodMarker, interval time.Duration, loc *time.Location, log zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		billing:  billing,
		marker:   marker,
		interval: interval,
		loc:      loc,
		now:      time.Now,
		log:      log,
	}
}

// Start launches the trigger loop. It ticks immediately once, then every
// interval, and stops when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.tick(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(ctx)
			}
		}
	}()
}

func (s *Scheduler) tick(ctx context.Context) {
	today := s.now().In(s.loc)
	if !s.billing.ShouldRunOn(today) {
		return
	}

	period := domain.BillingPeriod(today)

	// Marker failures are tolerated: the cycle is idempotent, so running a
	// month twice only costs redundant writes.
	ran, err := s.marker.AlreadyRan(ctx, period)
	if err != nil {
		s.log.Warn().Err(err).Str("period", period).Msg("cycle marker check failed, running anyway")
	} else if ran {
		s.log.Debug().Str("period", period).Msg("billing already ran this period, skipping")
		return
	}

	result, err := s.billing.Run(ctx, domain.TriggerScheduled)
	if err != nil {
		// Fetch-level failure: nothing was billed. Leave the period unmarked
		// so the next tick retries.
		s.log.Error().Err(err).Str("period", period).Msg("scheduled billing cycle failed")
		return
	}

	if err := s.marker.Mark(ctx, period); err != nil {
		s.log.Warn().Err(err).Str("period", period).Msg("failed to mark billing period")
	}

	s.log.Info().
		Str("period", period).
		Str("run_id", result.RunID).
		Int("processed", result.ProcessedCount).
		Int("errors", result.ErrorCount).
		Msg("scheduled billing cycle finished")
}
