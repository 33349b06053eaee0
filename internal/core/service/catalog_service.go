package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/watergb/billing-system/internal/core/domain"
	"github.com/watergb/billing-system/internal/core/ports"
)

// CatalogService implements CRUD use-cases over the property hierarchy.
type CatalogService struct {
	neighborhoods ports.NeighborhoodRepository
	squares       ports.SquareRepository
	houses        ports.HouseRepository
	logger        zerolog.Logger
}

func NewCatalogService(
	neighborhoods ports.NeighborhoodRepository,
	squares ports.SquareRepository,
	houses ports.HouseRepository,
	logger zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		neighborhoods: neighborhoods,
		squares:       squares,
		houses:        houses,
		logger:        logger,
	}
}

func (s *CatalogService) CreateNeighborhood(ctx context.Context, name string) (*domain.Neighborhood, error) {
	n := &domain.Neighborhood{Name: name, CreatedAt: time.Now().UTC()}
	created, err := s.neighborhoods.Create(ctx, n)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("neighborhood_id", created.ID).Str("name", created.Name).Msg("neighborhood created")
	return created, nil
}

func (s *CatalogService) ListNeighborhoods(ctx context.Context) ([]*domain.Neighborhood, error) {
	return s.neighborhoods.List(ctx)
}

// CreateSquare registers a square under an existing neighborhood. Square names
// are not checked for uniqueness; only house numbers are scoped-unique.
func (s *CatalogService) CreateSquare(ctx context.Context, name, neighborhoodID string) (*domain.Square, error) {
	if _, err := s.neighborhoods.FindByID(ctx, neighborhoodID); err != nil {
		return nil, err
	}

	sq := &domain.Square{Name: name, NeighborhoodID: neighborhoodID, CreatedAt: time.Now().UTC()}
	created, err := s.squares.Create(ctx, sq)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("square_id", created.ID).Str("neighborhood_id", neighborhoodID).Msg("square created")
	return created, nil
}

func (s *CatalogService) ListSquares(ctx context.Context, neighborhoodID string) ([]*domain.Square, error) {
	if _, err := s.neighborhoods.FindByID(ctx, neighborhoodID); err != nil {
		return nil, err
	}
	return s.squares.ListByNeighborhood(ctx, neighborhoodID)
}

// CreateHouse registers a house. House numbers must be unique within the
// square. Absent optional fields get defaults: occupied, unpaid, small meter,
// and a required amount derived from the meter tier.
func (s *CatalogService) CreateHouse(ctx context.Context, input ports.CreateHouseInput) (*domain.House, error) {
	if _, err := s.squares.FindByID(ctx, input.SquareID); err != nil {
		return nil, err
	}

	if err := s.checkHouseNumberFree(ctx, input.SquareID, input.HouseNumber, ""); err != nil {
		return nil, err
	}

	paymentType := input.PaymentType
	if paymentType == "" {
		paymentType = domain.SmallMeter
	}

	now := time.Now().UTC()
	house := &domain.House{
		HouseNumber:    input.HouseNumber,
		OwnerName:      input.OwnerName,
		OwnerPhone:     input.OwnerPhone,
		IsOccupied:     true,
		HasPaid:        false,
		PaymentType:    paymentType,
		RequiredAmount: paymentType.Amount(),
		ReceiptImage:   input.ReceiptImage,
		SquareID:       input.SquareID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if input.IsOccupied != nil {
		house.IsOccupied = *input.IsOccupied
	}
	if input.HasPaid != nil {
		house.HasPaid = *input.HasPaid
	}
	if input.RequiredAmount != nil {
		house.RequiredAmount = *input.RequiredAmount
	}

	created, err := s.houses.Create(ctx, house)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("house_id", created.ID).
		Str("house_number", created.HouseNumber).
		Str("square_id", created.SquareID).
		Msg("house created")
	return created, nil
}

// UpdateHouse replaces the mutable fields of a house, re-checking that the
// (possibly changed) house number stays unique within the house's square.
func (s *CatalogService) UpdateHouse(ctx context.Context, id string, input ports.UpdateHouseInput) (*domain.House, error) {
	current, err := s.houses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkHouseNumberFree(ctx, current.SquareID, input.HouseNumber, id); err != nil {
		return nil, err
	}

	return s.houses.Update(ctx, id, ports.HouseUpdate{
		HouseNumber:    input.HouseNumber,
		OwnerName:      input.OwnerName,
		OwnerPhone:     input.OwnerPhone,
		IsOccupied:     input.IsOccupied,
		HasPaid:        input.HasPaid,
		PaymentType:    input.PaymentType,
		RequiredAmount: input.RequiredAmount,
		ReceiptImage:   input.ReceiptImage,
	})
}

func (s *CatalogService) DeleteHouse(ctx context.Context, id string) error {
	if err := s.houses.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("house_id", id).Msg("house deleted")
	return nil
}

func (s *CatalogService) ListHouses(ctx context.Context, squareID string) ([]*domain.House, error) {
	if _, err := s.squares.FindByID(ctx, squareID); err != nil {
		return nil, err
	}
	return s.houses.ListBySquare(ctx, squareID)
}

// checkHouseNumberFree returns ErrDuplicateHouse when another house (one with
// a different id than excludeID) already uses the number in the square.
func (s *CatalogService) checkHouseNumberFree(ctx context.Context, squareID, houseNumber, excludeID string) error {
	existing, err := s.houses.FindBySquareAndNumber(ctx, squareID, houseNumber)
	if err != nil {
		if errors.Is(err, domain.ErrHouseNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != excludeID {
		return domain.ErrDuplicateHouse
	}
	return nil
}
