package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/watergb/billing-system/internal/api"
	"github.com/watergb/billing-system/internal/core/service"
	mongodb "github.com/watergb/billing-system/internal/infrastructure/db/mongo"
	redisdb "github.com/watergb/billing-system/internal/infrastructure/db/redis"
	httphandlers "github.com/watergb/billing-system/internal/infrastructure/http/handlers"
	"github.com/watergb/billing-system/internal/infrastructure/scheduler"
	"github.com/watergb/billing-system/internal/pkg/config"
	"github.com/watergb/billing-system/pkg/logger"
)

// @title WaterGB Billing API
// @version 1.0
// @description Municipal water-utility billing backend: property catalog, payment obligations, and the monthly billing cycle.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(shutdownCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Repositories ---
	authRepo := mongodb.NewAuthRepository(db)
	neighborhoodRepo := mongodb.NewNeighborhoodRepository(db)
	squareRepo := mongodb.NewSquareRepository(db)
	houseRepo := mongodb.NewHouseRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"users":         authRepo.EnsureIndexes,
		"neighborhoods": neighborhoodRepo.EnsureIndexes,
		"squares":       squareRepo.EnsureIndexes,
		"houses":        houseRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	// --- Services ---
	tokenService := service.NewTokenService(cfg.JWTSecret, 24*time.Hour)
	authService := service.NewAuthService(authRepo, tokenService)
	catalogService := service.NewCatalogService(neighborhoodRepo, squareRepo, houseRepo, log)
	billingService := service.NewBillingService(houseRepo, cfg.Billing.Workers, log)

	// --- Billing scheduler ---
	interval, err := time.ParseDuration(cfg.Billing.CheckInterval)
	if err != nil {
		log.Fatal().Err(err).Str("value", cfg.Billing.CheckInterval).Msg("invalid billing check interval")
	}
	loc, err := time.LoadLocation(cfg.Billing.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("value", cfg.Billing.Timezone).Msg("invalid billing timezone")
	}
	marker := redisdb.NewCycleMarker(rdb)
	scheduler.New(billingService, marker, interval, loc, log).Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(api.Dependencies{
		AuthService:    authService,
		TokenService:   tokenService,
		AuthRepository: authRepo,
		CatalogService: catalogService,
		BillingService: billingService,
		Health:         httphandlers.NewReadinessHandler(db, rdb),
		Logger:         log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
