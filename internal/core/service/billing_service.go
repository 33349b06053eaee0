package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/watergb/billing-system/internal/api/metrics"
	"github.com/watergb/billing-system/internal/core/domain"
	"github.com/watergb/billing-system/internal/core/ports"
)

const defaultBillingWorkers = 8

// BillingService executes the monthly billing cycle: every occupied house has
// its payment state reset and its required amount recomputed from the meter
// tier. Houses are processed by a fixed pool of workers; each house update is
// its own atomic unit so a failure on one record never rolls back or blocks
// the others.
type BillingService struct {
	houses  ports.HouseRepository
	workers int
	logger  zerolog.Logger
}

func NewBillingService(houses ports.HouseRepository, workers int, logger zerolog.Logger) *BillingService {
	if workers <= 0 {
		workers = defaultBillingWorkers
	}
	return &BillingService{houses: houses, workers: workers, logger: logger}
}

// ShouldRunOn reports whether a billing cycle is due on the given date:
// true exactly on the last calendar day of the month. The day number varies
// (28/29/30/31), so the check compares months across a one-day step rather
// than testing a literal day-of-month.
func (s *BillingService) ShouldRunOn(date time.Time) bool {
	return domain.IsLastDayOfMonth(date)
}

// Run executes one billing cycle. Re-running is safe: a second pass re-resets
// houses to the identical state, which is what makes retries after a partial
// or interrupted cycle free of bookkeeping.
func (s *BillingService) Run(ctx context.Context, trigger domain.BillingTrigger) (*domain.BillingResult, error) {
	result := &domain.BillingResult{
		RunID:     uuid.NewString(),
		Trigger:   trigger,
		StartedAt: time.Now().UTC(),
	}

	log := s.logger.With().Str("run_id", result.RunID).Str("trigger", string(trigger)).Logger()
	log.Info().Msg("billing cycle started")

	houses, err := s.houses.ListOccupied(ctx)
	if err != nil {
		result.FinishedAt = time.Now().UTC()
		log.Error().Err(err).Msg("billing cycle aborted: cannot enumerate houses")
		metrics.BillingCyclesTotal.WithLabelValues(string(trigger), "fetch_failed").Inc()
		return result, fmt.Errorf("billing: list occupied houses: %w", err)
	}
	result.TotalHouses = len(houses)

	var processed, failed atomic.Int64

	jobs := make(chan *domain.House)
	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for house := range jobs {
				s.resetHouse(ctx, log, house, &processed, &failed)
			}
		}()
	}

feed:
	for _, house := range houses {
		select {
		case <-ctx.Done():
			// Stop feeding; in-flight updates finish. The next run sweeps up
			// whatever was left, since the reset is idempotent.
			log.Warn().Err(ctx.Err()).Msg("billing cycle interrupted")
			break feed
		case jobs <- house:
		}
	}
	close(jobs)
	wg.Wait()

	result.ProcessedCount = int(processed.Load())
	result.ErrorCount = int(failed.Load())
	result.Success = true
	result.FinishedAt = time.Now().UTC()

	metrics.BillingCyclesTotal.WithLabelValues(string(trigger), "completed").Inc()
	metrics.BillingCycleDuration.Observe(result.FinishedAt.Sub(result.StartedAt).Seconds())

	log.Info().
		Int("total_houses", result.TotalHouses).
		Int("processed", result.ProcessedCount).
		Int("errors", result.ErrorCount).
		Msg("billing cycle completed")

	return result, nil
}

// resetHouse applies the payment reset to one house. Failures are counted and
// logged, never propagated. No retry happens within the run; the next
// idempotent cycle covers it.
func (s *BillingService) resetHouse(ctx context.Context, log zerolog.Logger, house *domain.House, processed, failed *atomic.Int64) {
	amount := house.PaymentType.Amount()
	if err := s.houses.ResetPayment(ctx, house.ID, amount); err != nil {
		failed.Add(1)
		metrics.BillingHouseErrorsTotal.Inc()
		log.Error().Err(err).
			Str("house_id", house.ID).
			Str("house_number", house.HouseNumber).
			Msg("failed to reset house payment state")
		return
	}
	processed.Add(1)
	metrics.BillingHousesProcessedTotal.Inc()
	log.Debug().
		Str("house_id", house.ID).
		Str("house_number", house.HouseNumber).
		Int64("required_amount", amount).
		Msg("house payment state reset")
}
