package ports

import (
	"context"

	"github.com/watergb/billing-system/internal/core/domain"
)

// NeighborhoodRepository persists the roots of the geographic hierarchy.
type NeighborhoodRepository interface {
	Create(ctx context.Context, n *domain.Neighborhood) (*domain.Neighborhood, error)
	FindByID(ctx context.Context, id string) (*domain.Neighborhood, error)
	// List returns all neighborhoods ordered by name.
	List(ctx context.Context) ([]*domain.Neighborhood, error)
}

// SquareRepository persists sub-districts.
type SquareRepository interface {
	Create(ctx context.Context, s *domain.Square) (*domain.Square, error)
	FindByID(ctx context.Context, id string) (*domain.Square, error)
	// ListByNeighborhood returns the squares of one neighborhood ordered by name.
	ListByNeighborhood(ctx context.Context, neighborhoodID string) ([]*domain.Square, error)
}

// HouseUpdate carries the mutable fields of a house for a full update.
// Nil/zero handling is the service's concern; repositories write what they get.
type HouseUpdate struct {
	HouseNumber    string
	OwnerName      string
	OwnerPhone     string
	IsOccupied     bool
	HasPaid        bool
	PaymentType    domain.PaymentType
	RequiredAmount int64
	ReceiptImage   string
}

// HouseRepository persists houses and exposes the two operations the billing
// engine consumes: occupied-house enumeration and the per-house payment reset.
type HouseRepository interface {
	Create(ctx context.Context, h *domain.House) (*domain.House, error)
	FindByID(ctx context.Context, id string) (*domain.House, error)
	// FindBySquareAndNumber is the uniqueness probe for house numbers within a
	// square. Returns ErrHouseNotFound when no such house exists.
	FindBySquareAndNumber(ctx context.Context, squareID, houseNumber string) (*domain.House, error)
	ListBySquare(ctx context.Context, squareID string) ([]*domain.House, error)
	Update(ctx context.Context, id string, upd HouseUpdate) (*domain.House, error)
	Delete(ctx context.Context, id string) error

	// ListOccupied returns every house with is_occupied=true. Unoccupied houses
	// are exempt from billing and never appear here.
	ListOccupied(ctx context.Context) ([]*domain.House, error)
	// ResetPayment clears the payment state of a single house as its own atomic
	// unit: has_paid=false, last_payment_date=null, required_amount=amount.
	ResetPayment(ctx context.Context, id string, amount int64) error
}
