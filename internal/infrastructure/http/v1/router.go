// Package v1 provides HTTP API version 1.
package v1

import (
	"context"

	"github.com/gin-gonic/gin"

	"coilledger/internal/domain/auth"
	"coilledger/internal/domain/opstatus"
	"coilledger/internal/domain/store"
	"coilledger/internal/infrastructure/http/v1/handlers"
	"coilledger/internal/infrastructure/http/v1/middleware"
	"coilledger/internal/infrastructure/storage/postgres"
	"coilledger/internal/infrastructure/storage/postgres/catalog_repo"
	"coilledger/internal/infrastructure/storage/postgres/event_repo"
	"coilledger/pkg/logger"
)

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	// Pool is the database connection pool (health checks).
	Pool *postgres.Pool

	// Store is the in-memory collection mirror.
	Store *store.Store

	// Persister saves snapshot transitions to the database.
	Persister store.Persister

	// Resolver returns the current material catalog resolver.
	Resolver handlers.ResolverFunc

	// OnMaterialChange rebuilds the resolver after catalog writes.
	OnMaterialChange func(ctx context.Context) error

	// MaterialRepo backs the catalog endpoints.
	MaterialRepo *catalog_repo.MaterialRepo

	// EventRepo backs the persisted movement feed.
	EventRepo *event_repo.EventRepo

	// StatusConfig carries the classification thresholds and rules.
	StatusConfig opstatus.Config

	// Logger for request logging.
	Logger *logger.Logger

	// JWTValidator for token validation.
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints.
	AuthService *auth.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)

	v1 := router.Group("/api/v1")
	{
		authHandler.RegisterRoutes(v1.Group("/auth"))

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		authHandler.RegisterProtectedRoutes(protected.Group("/auth"))

		stockHandler := handlers.NewStockHandler(base, cfg.Store, cfg.Resolver, cfg.StatusConfig)
		stockHandler.RegisterRoutes(protected.Group("/stock"))

		kardexHandler := handlers.NewKardexHandler(base, cfg.Store, cfg.Resolver)
		kardexHandler.RegisterRoutes(protected.Group("/kardex"))

		snapshotHandler := handlers.NewSnapshotHandler(base, cfg.Store, cfg.Resolver)
		snapshotHandler.RegisterRoutes(protected.Group("/snapshot"))

		eventsHandler := handlers.NewEventsHandler(base, cfg.Store, cfg.EventRepo)
		eventsHandler.RegisterRoutes(protected.Group("/events"))

		lotsHandler := handlers.NewLotsHandler(base, cfg.Store, cfg.Persister)
		lotsHandler.RegisterRoutes(protected.Group("/lots"))

		materialsHandler := handlers.NewMaterialsHandler(base, cfg.MaterialRepo, cfg.OnMaterialChange)
		materialsHandler.RegisterRoutes(protected.Group("/materials"))

		commandsHandler := handlers.NewCommandsHandler(base, cfg.Store, cfg.Persister)
		commandsHandler.RegisterRoutes(protected)
	}

	return router
}
