package domain

import "time"

// BillingTrigger identifies what initiated a billing cycle.
type BillingTrigger string

const (
	TriggerScheduled BillingTrigger = "scheduled"
	TriggerManual    BillingTrigger = "manual"
)

// BillingResult is the aggregate outcome of one billing cycle. Success stays
// true even when individual houses failed; it is false only when the house
// enumeration itself failed and nothing could be processed.
type BillingResult struct {
	RunID          string         `json:"run_id"`
	Trigger        BillingTrigger `json:"trigger"`
	Success        bool           `json:"success"`
	TotalHouses    int            `json:"total_houses"`
	ProcessedCount int            `json:"processed_count"`
	ErrorCount     int            `json:"error_count"`
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     time.Time      `json:"finished_at"`
}

// BillingPeriod returns the period key a date belongs to, e.g. "2026-08".
// Scheduled runs use it to avoid re-running a month that already billed.
func BillingPeriod(t time.Time) string {
	return t.Format("2006-01")
}

// IsLastDayOfMonth reports whether t falls on the final calendar day of its
// month (28/29/30/31 depending on the month). Monthly billing fires on this
// day only.
func IsLastDayOfMonth(t time.Time) bool {
	return t.AddDate(0, 0, 1).Month() != t.Month()
}
