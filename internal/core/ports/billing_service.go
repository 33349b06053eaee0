package ports

import (
	"context"
	"time"

	"github.com/watergb/billing-system/internal/core/domain"
)

// BillingService decides when a billing cycle is due and executes it.
//
// Run resets the payment state of every occupied house with per-house fault
// isolation: one house failing never aborts the rest. The returned result
// reports Success=false only when the occupied-house enumeration itself
// failed. Running a cycle twice is safe; the second pass re-resets houses to
// the same state.
//
// Both the daily scheduler and the manual admin endpoint call the same Run.
type BillingService interface {
	ShouldRunOn(date time.Time) bool
	Run(ctx context.Context, trigger domain.BillingTrigger) (*domain.BillingResult, error)
}
