// Command seed provisions a development database: a default admin account and
// a small property catalog (neighborhoods, squares, houses) with randomized
// occupancy and meter tiers.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/watergb/billing-system/internal/core/domain"
	mongodb "github.com/watergb/billing-system/internal/infrastructure/db/mongo"
	"github.com/watergb/billing-system/internal/pkg/config"
	"github.com/watergb/billing-system/pkg/logger"
)

const (
	adminUsername = "admin"
	adminPassword = "admin123"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer client.Disconnect(ctx)

	authRepo := mongodb.NewAuthRepository(db)
	neighborhoodRepo := mongodb.NewNeighborhoodRepository(db)
	squareRepo := mongodb.NewSquareRepository(db)
	houseRepo := mongodb.NewHouseRepository(db)

	for _, ensure := range []func(context.Context) error{
		authRepo.EnsureIndexes,
		neighborhoodRepo.EnsureIndexes,
		squareRepo.EnsureIndexes,
		houseRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Msg("index creation failed")
		}
	}

	// Default admin account.
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash admin password")
	}
	now := time.Now().UTC()
	_, err = authRepo.Create(ctx, &domain.User{
		Username:     adminUsername,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	switch {
	case errors.Is(err, domain.ErrUserExists):
		log.Info().Str("username", adminUsername).Msg("admin user already present")
	case err != nil:
		log.Fatal().Err(err).Msg("create admin user")
	default:
		log.Info().Str("username", adminUsername).Msg("admin user created")
	}

	neighborhoods := []string{
		"North District",
		"South District",
		"East District",
		"West District",
		"Central District",
	}
	squares := []string{"First Square", "Second Square", "Third Square"}
	tiers := []domain.PaymentType{domain.SmallMeter, domain.MediumMeter, domain.LargeMeter}

	for _, name := range neighborhoods {
		n, err := neighborhoodRepo.Create(ctx, &domain.Neighborhood{Name: name, CreatedAt: now})
		if errors.Is(err, domain.ErrNeighborhoodExists) {
			log.Info().Str("name", name).Msg("neighborhood already present, skipping")
			continue
		}
		if err != nil {
			log.Fatal().Err(err).Str("name", name).Msg("create neighborhood")
		}

		for _, sqName := range squares {
			sq, err := squareRepo.Create(ctx, &domain.Square{Name: sqName, NeighborhoodID: n.ID, CreatedAt: now})
			if err != nil {
				log.Fatal().Err(err).Str("name", sqName).Msg("create square")
			}

			for i := 1; i <= 5; i++ {
				tier := tiers[rand.Intn(len(tiers))]
				_, err := houseRepo.Create(ctx, &domain.House{
					HouseNumber:    fmt.Sprintf("%d", i),
					OwnerName:      fmt.Sprintf("Owner %d", i),
					OwnerPhone:     fmt.Sprintf("07%08d", rand.Intn(100000000)),
					IsOccupied:     rand.Float64() > 0.2,
					HasPaid:        rand.Float64() > 0.3,
					PaymentType:    tier,
					RequiredAmount: tier.Amount(),
					SquareID:       sq.ID,
					CreatedAt:      now,
					UpdatedAt:      now,
				})
				if err != nil && !errors.Is(err, domain.ErrDuplicateHouse) {
					log.Fatal().Err(err).Int("house", i).Msg("create house")
				}
			}
		}
		log.Info().Str("neighborhood", name).Msg("seeded")
	}

	log.Info().Msgf("seeding complete; login with %s / %s", adminUsername, adminPassword)
}
