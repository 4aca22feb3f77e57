// Package main is the entry point for the coilledger API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"

	"coilledger/internal/config"
	"coilledger/internal/domain/auth"
	"coilledger/internal/domain/catalogs/material"
	"coilledger/internal/domain/opstatus"
	"coilledger/internal/domain/store"
	v1 "coilledger/internal/infrastructure/http/v1"
	"coilledger/internal/infrastructure/storage/postgres"
	"coilledger/internal/infrastructure/storage/postgres/auth_repo"
	"coilledger/internal/infrastructure/storage/postgres/catalog_repo"
	"coilledger/internal/infrastructure/storage/postgres/event_repo"
	"coilledger/internal/infrastructure/storage/postgres/mirror"
	"coilledger/pkg/logger"
)

func main() {
	// .env is optional; environment always wins.
	_ = gotenv.Load()

	configPath := getEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("failed to load config %s: %v\n", configPath, err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: cfg.App.Env == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting coilledger server")

	// --- Migrations ---
	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Fatalw("migrations failed", "error", err)
	}
	log.Info("migrations applied")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.Postgres.DSN)
	if cfg.Postgres.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolCfg.MinConns = cfg.Postgres.MinConns
	}
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)
	repos := mirror.NewRepos(txManager)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}
	persister := mirror.NewPersister(txManager, repos, auditService)

	// --- Collection mirror ---
	snap, err := mirror.Load(ctx, repos)
	if err != nil {
		log.Fatalw("failed to load collections", "error", err)
	}
	st := store.New(snap)
	log.Infow("collections loaded",
		"mothers", len(snap.Mothers),
		"children", len(snap.Children),
		"cuts", len(snap.Cuts),
		"batches", len(snap.Batches),
		"shipments", len(snap.Shipments),
	)

	// --- Material catalog ---
	materialRepo := catalog_repo.NewMaterialRepo(txManager)
	var resolver atomic.Pointer[material.Resolver]
	reloadResolver := func(ctx context.Context) error {
		entries, err := materialRepo.ListAll(ctx)
		if err != nil {
			return err
		}
		resolver.Store(material.NewResolver(entries))
		return nil
	}
	if err := reloadResolver(ctx); err != nil {
		log.Fatalw("failed to load material catalog", "error", err)
	}
	log.Infow("material catalog loaded", "entries", resolver.Load().Len())

	// --- Status classification ---
	statusCfg := statusConfig(cfg, log)

	// --- Auth ---
	jwtSecret := getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	jwtConfig := auth.DefaultJWTConfig(jwtSecret)
	if cfg.Auth.TokenTTL > 0 {
		jwtConfig.AccessTokenTTL = cfg.Auth.TokenTTL
	}
	jwtService := auth.NewJWTService(jwtConfig)
	authService := auth.NewService(
		auth_repo.NewUserRepo(txManager),
		txManager,
		jwtService,
		auth.DefaultServiceConfig(),
	)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:             pool,
		Store:            st,
		Persister:        persister,
		Resolver:         func() *material.Resolver { return resolver.Load() },
		OnMaterialChange: reloadResolver,
		MaterialRepo:     materialRepo,
		EventRepo:        event_repo.NewEventRepo(txManager),
		StatusConfig:     statusCfg,
		Logger:           log,
		JWTValidator:     jwtService,
		AuthService:      authService,
	})

	// --- HTTP server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

// statusConfig builds the classifier config, compiling any operator
// rules from the config file. A rule that fails to compile is skipped
// with a warning instead of blocking startup.
func statusConfig(cfg config.Config, log *logger.Logger) opstatus.Config {
	out := opstatus.DefaultConfig()
	if cfg.Status.DemandWindowDays > 0 {
		out.DemandWindowDays = cfg.Status.DemandWindowDays
	}
	if cfg.Status.NoTurnoverDays > 0 {
		out.NoTurnoverDays = cfg.Status.NoTurnoverDays
	}
	if cfg.Status.AgingDays > 0 {
		out.AgingDays = cfg.Status.AgingDays
	}

	for _, r := range cfg.Status.Rules {
		rule, err := opstatus.CompileRule(r.Name, r.Expression, opstatus.Status(r.Status))
		if err != nil {
			log.Warnw("skipping status rule", "name", r.Name, "error", err)
			continue
		}
		out.Rules = append(out.Rules, rule)
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
