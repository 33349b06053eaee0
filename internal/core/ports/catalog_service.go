package ports

import (
	"context"

	"github.com/watergb/billing-system/internal/core/domain"
)

// CreateHouseInput carries all data needed to register a new house.
// Optional fields keep pointer types so the service can apply defaults
// (occupied=true, small meter, tier-derived amount) only when absent.
type CreateHouseInput struct {
	HouseNumber    string
	OwnerName      string
	OwnerPhone     string
	IsOccupied     *bool
	HasPaid        *bool
	PaymentType    domain.PaymentType
	RequiredAmount *int64
	ReceiptImage   string
	SquareID       string
}

// UpdateHouseInput carries the full replacement state for an existing house.
type UpdateHouseInput struct {
	HouseNumber    string
	OwnerName      string
	OwnerPhone     string
	IsOccupied     bool
	HasPaid        bool
	PaymentType    domain.PaymentType
	RequiredAmount int64
	ReceiptImage   string
}

// CatalogService defines the use-case operations over the property hierarchy.
type CatalogService interface {
	CreateNeighborhood(ctx context.Context, name string) (*domain.Neighborhood, error)
	ListNeighborhoods(ctx context.Context) ([]*domain.Neighborhood, error)

	CreateSquare(ctx context.Context, name, neighborhoodID string) (*domain.Square, error)
	ListSquares(ctx context.Context, neighborhoodID string) ([]*domain.Square, error)

	CreateHouse(ctx context.Context, input CreateHouseInput) (*domain.House, error)
	UpdateHouse(ctx context.Context, id string, input UpdateHouseInput) (*domain.House, error)
	DeleteHouse(ctx context.Context, id string) error
	ListHouses(ctx context.Context, squareID string) ([]*domain.House, error)
}
