package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/watergb/billing-system/internal/core/domain"
	"github.com/watergb/billing-system/internal/core/ports"
)

// stubHouseRepo is an in-memory HouseRepository. ResetPayment fails for ids
// listed in failIDs; listErr makes enumeration itself fail.
type stubHouseRepo struct {
	mu      sync.Mutex
	houses  map[string]*domain.House
	failIDs map[string]bool
	listErr error
}

func newStubHouseRepo(houses ...*domain.House) *stubHouseRepo {
	r := &stubHouseRepo{houses: make(map[string]*domain.House), failIDs: make(map[string]bool)}
	for _, h := range houses {
		clone := *h
		r.houses[h.ID] = &clone
	}
	return r
}

func (r *stubHouseRepo) Create(_ context.Context, h *domain.House) (*domain.House, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *h
	r.houses[h.ID] = &clone
	return &clone, nil
}

func (r *stubHouseRepo) FindByID(_ context.Context, id string) (*domain.House, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.houses[id]
	if !ok {
		return nil, domain.ErrHouseNotFound
	}
	clone := *h
	return &clone, nil
}

func (r *stubHouseRepo) FindBySquareAndNumber(_ context.Context, squareID, houseNumber string) (*domain.House, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.houses {
		if h.SquareID == squareID && h.HouseNumber == houseNumber {
			clone := *h
			return &clone, nil
		}
	}
	return nil, domain.ErrHouseNotFound
}

func (r *stubHouseRepo) ListBySquare(_ context.Context, squareID string) ([]*domain.House, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.House
	for _, h := range r.houses {
		if h.SquareID == squareID {
			clone := *h
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubHouseRepo) Update(_ context.Context, id string, upd ports.HouseUpdate) (*domain.House, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.houses[id]
	if !ok {
		return nil, domain.ErrHouseNotFound
	}
	h.HouseNumber = upd.HouseNumber
	h.OwnerName = upd.OwnerName
	h.OwnerPhone = upd.OwnerPhone
	h.IsOccupied = upd.IsOccupied
	h.HasPaid = upd.HasPaid
	h.PaymentType = upd.PaymentType
	h.RequiredAmount = upd.RequiredAmount
	h.ReceiptImage = upd.ReceiptImage
	clone := *h
	return &clone, nil
}

func (r *stubHouseRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.houses[id]; !ok {
		return domain.ErrHouseNotFound
	}
	delete(r.houses, id)
	return nil
}

func (r *stubHouseRepo) ListOccupied(_ context.Context) ([]*domain.House, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.House
	for _, h := range r.houses {
		if h.IsOccupied {
			clone := *h
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubHouseRepo) ResetPayment(_ context.Context, id string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failIDs[id] {
		return errors.New("storage error")
	}
	h, ok := r.houses[id]
	if !ok {
		return domain.ErrHouseNotFound
	}
	h.HasPaid = false
	h.LastPaymentDate = nil
	h.RequiredAmount = amount
	return nil
}

func (r *stubHouseRepo) snapshot(id string) domain.House {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.houses[id]
}

func paidHouse(id string, tier domain.PaymentType, occupied bool) *domain.House {
	paidAt := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	return &domain.House{
		ID:              id,
		HouseNumber:     id,
		OwnerName:       "owner " + id,
		IsOccupied:      occupied,
		HasPaid:         true,
		PaymentType:     tier,
		RequiredAmount:  1,
		LastPaymentDate: &paidAt,
		SquareID:        "sq1",
	}
}

func TestBillingService_ShouldRunOn(t *testing.T) {
	svc := NewBillingService(newStubHouseRepo(), 2, zerolog.Nop())

	cases := []struct {
		date time.Time
		want bool
	}{
		{time.Date(2026, 2, 28, 9, 0, 0, 0, time.UTC), true},  // non-leap February
		{time.Date(2024, 2, 29, 9, 0, 0, 0, time.UTC), true},  // leap February
		{time.Date(2024, 2, 28, 9, 0, 0, 0, time.UTC), false}, // leap Feb 28 is not the last day
		{time.Date(2026, 4, 30, 9, 0, 0, 0, time.UTC), true},
		{time.Date(2026, 12, 31, 9, 0, 0, 0, time.UTC), true},
		{time.Date(2026, 12, 30, 9, 0, 0, 0, time.UTC), false},
		{time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC), false},
		{time.Date(2026, 1, 31, 23, 59, 0, 0, time.UTC), true},
	}
	for _, tc := range cases {
		if got := svc.ShouldRunOn(tc.date); got != tc.want {
			t.Errorf("ShouldRunOn(%s) = %v, want %v", tc.date.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestBillingService_Run_ResetsOccupiedHouses(t *testing.T) {
	repo := newStubHouseRepo(
		paidHouse("h1", domain.MediumMeter, true),
		paidHouse("h2", domain.SmallMeter, true),
		paidHouse("h3", domain.LargeMeter, true),
	)
	svc := NewBillingService(repo, 4, zerolog.Nop())

	result, err := svc.Run(context.Background(), domain.TriggerScheduled)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success")
	}
	if result.TotalHouses != 3 || result.ProcessedCount != 3 || result.ErrorCount != 0 {
		t.Fatalf("unexpected counts: %+v", result)
	}

	h := repo.snapshot("h1")
	if h.HasPaid {
		t.Errorf("h1 still marked paid")
	}
	if h.LastPaymentDate != nil {
		t.Errorf("h1 last payment date not cleared")
	}
	if h.RequiredAmount != 10000 {
		t.Errorf("h1 required amount = %d, want 10000", h.RequiredAmount)
	}
	if got := repo.snapshot("h2").RequiredAmount; got != 5000 {
		t.Errorf("h2 required amount = %d, want 5000", got)
	}
	if got := repo.snapshot("h3").RequiredAmount; got != 15000 {
		t.Errorf("h3 required amount = %d, want 15000", got)
	}
}

func TestBillingService_Run_UnknownTierDefaultsToSmall(t *testing.T) {
	repo := newStubHouseRepo(paidHouse("h1", domain.PaymentType("XL_METER"), true))
	svc := NewBillingService(repo, 1, zerolog.Nop())

	if _, err := svc.Run(context.Background(), domain.TriggerManual); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := repo.snapshot("h1").RequiredAmount; got != 5000 {
		t.Errorf("required amount = %d, want small-meter default 5000", got)
	}
}

func TestBillingService_Run_SkipsUnoccupied(t *testing.T) {
	repo := newStubHouseRepo(
		paidHouse("occupied", domain.SmallMeter, true),
		paidHouse("vacant", domain.SmallMeter, false),
	)
	svc := NewBillingService(repo, 2, zerolog.Nop())

	result, err := svc.Run(context.Background(), domain.TriggerScheduled)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.TotalHouses != 1 || result.ProcessedCount != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}

	vacant := repo.snapshot("vacant")
	if !vacant.HasPaid || vacant.LastPaymentDate == nil {
		t.Errorf("unoccupied house was mutated: %+v", vacant)
	}
}

func TestBillingService_Run_PerHouseFailureIsContained(t *testing.T) {
	repo := newStubHouseRepo(
		paidHouse("good", domain.MediumMeter, true),
		paidHouse("bad", domain.MediumMeter, true),
	)
	repo.failIDs["bad"] = true
	svc := NewBillingService(repo, 2, zerolog.Nop())

	result, err := svc.Run(context.Background(), domain.TriggerScheduled)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !result.Success {
		t.Fatalf("partial failure must not fail the cycle: %+v", result)
	}
	if result.ErrorCount != 1 || result.ProcessedCount != 1 || result.TotalHouses != 2 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if repo.snapshot("good").HasPaid {
		t.Errorf("good house not reset despite bad house failing")
	}
}

func TestBillingService_Run_FetchFailure(t *testing.T) {
	repo := newStubHouseRepo()
	repo.listErr = errors.New("connection refused")
	svc := NewBillingService(repo, 2, zerolog.Nop())

	result, err := svc.Run(context.Background(), domain.TriggerScheduled)
	if err == nil {
		t.Fatalf("expected error when enumeration fails")
	}
	if result == nil || result.Success {
		t.Fatalf("expected Success=false result, got %+v", result)
	}
	if result.ProcessedCount != 0 || result.ErrorCount != 0 {
		t.Fatalf("nothing should have been processed: %+v", result)
	}
}

func TestBillingService_Run_Idempotent(t *testing.T) {
	repo := newStubHouseRepo(
		paidHouse("h1", domain.MediumMeter, true),
		paidHouse("h2", domain.LargeMeter, true),
	)
	svc := NewBillingService(repo, 3, zerolog.Nop())

	if _, err := svc.Run(context.Background(), domain.TriggerScheduled); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := []domain.House{repo.snapshot("h1"), repo.snapshot("h2")}

	result, err := svc.Run(context.Background(), domain.TriggerManual)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !result.Success || result.ProcessedCount != 2 {
		t.Fatalf("second run counts: %+v", result)
	}

	second := []domain.House{repo.snapshot("h1"), repo.snapshot("h2")}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("state diverged after re-run: %+v vs %+v", first[i], second[i])
		}
	}
}

func TestBillingService_Run_Cancelled(t *testing.T) {
	repo := newStubHouseRepo(paidHouse("h1", domain.SmallMeter, true))
	svc := NewBillingService(repo, 1, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled context may stop the feed before any house is handed out;
	// the run still returns an aggregate rather than an error.
	result, err := svc.Run(ctx, domain.TriggerScheduled)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !result.Success {
		t.Fatalf("interrupted run should still report the pass outcome: %+v", result)
	}
}
