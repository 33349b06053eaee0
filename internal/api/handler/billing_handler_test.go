package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/watergb/billing-system/internal/core/domain"
)

type stubBillingService struct {
	result  *domain.BillingResult
	err     error
	trigger domain.BillingTrigger
}

func (s *stubBillingService) ShouldRunOn(_ time.Time) bool { return false }

func (s *stubBillingService) Run(_ context.Context, trigger domain.BillingTrigger) (*domain.BillingResult, error) {
	s.trigger = trigger
	return s.result, s.err
}

func TestBillingHandler_Run_ReturnsAggregate(t *testing.T) {
	e := newEcho()
	billing := &stubBillingService{
		result: &domain.BillingResult{
			RunID:          "run-1",
			Trigger:        domain.TriggerManual,
			Success:        true,
			TotalHouses:    12,
			ProcessedCount: 11,
			ErrorCount:     1,
		},
	}
	h := NewBillingHandler(billing)

	rec, _ := doJSON(e, h.Run, http.MethodPost, "/v1/billing/run", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if billing.trigger != domain.TriggerManual {
		t.Fatalf("expected manual trigger, got %s", billing.trigger)
	}

	var resp domain.BillingResult
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.ProcessedCount != 11 || resp.ErrorCount != 1 {
		t.Fatalf("unexpected aggregate: %+v", resp)
	}
}

func TestBillingHandler_Run_FetchFailure(t *testing.T) {
	e := newEcho()
	billing := &stubBillingService{
		result: &domain.BillingResult{RunID: "run-2", Trigger: domain.TriggerManual, Success: false},
		err:    errors.New("list occupied houses: connection reset"),
	}
	h := NewBillingHandler(billing)

	rec, _ := doJSON(e, h.Run, http.MethodPost, "/v1/billing/run", "")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var resp domain.BillingResult
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success {
		t.Fatalf("failed cycle must report Success=false")
	}
}
