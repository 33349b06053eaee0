package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	"github.com/watergb/billing-system/internal/api/handler"
	"github.com/watergb/billing-system/internal/api/middleware"
	"github.com/watergb/billing-system/internal/core/domain"
	"github.com/watergb/billing-system/internal/core/ports"
	httphandlers "github.com/watergb/billing-system/internal/infrastructure/http/handlers"
)

// Dependencies carries everything the router needs, injected explicitly so
// handlers and guards can be exercised with fakes in tests.
type Dependencies struct {
	AuthService    ports.AuthService
	TokenService   ports.TokenService
	AuthRepository ports.AuthRepository
	CatalogService ports.CatalogService
	BillingService ports.BillingService
	Health         *httphandlers.ReadinessHandler
	Logger         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("waterbilling"))

	authHandler := handler.NewAuthHandler(deps.AuthService)
	catalogHandler := handler.NewCatalogHandler(deps.CatalogService)
	houseHandler := handler.NewHouseHandler(deps.CatalogService)
	billingHandler := handler.NewBillingHandler(deps.BillingService)

	authn := middleware.Auth(deps.TokenService)
	adminOnly := middleware.RequireRole(deps.AuthRepository, deps.Logger, domain.RoleAdmin)

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes and operational endpoints (no auth required) ---
	healthHandler := httphandlers.NewLivenessHandler()
	e.GET("/health", healthHandler.Liveness)
	if deps.Health != nil {
		e.GET("/health/ready", deps.Health.Readiness)
	}
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Authenticated API ---
	v1 := e.Group("/v1", authn)

	v1.GET("/neighborhoods", catalogHandler.ListNeighborhoods)
	v1.GET("/neighborhoods/:id/squares", catalogHandler.ListSquares)
	v1.GET("/squares/:id/houses", houseHandler.ListBySquare)

	// Mutations and the manual billing trigger are admin-gated; the role is
	// re-checked against the store on every call.
	v1.POST("/neighborhoods", catalogHandler.CreateNeighborhood, adminOnly)
	v1.POST("/squares", catalogHandler.CreateSquare, adminOnly)
	v1.POST("/houses", houseHandler.Create, adminOnly)
	v1.PUT("/houses/:id", houseHandler.Update, adminOnly)
	v1.DELETE("/houses/:id", houseHandler.Delete, adminOnly)
	v1.POST("/billing/run", billingHandler.Run, adminOnly)

	return e
}
