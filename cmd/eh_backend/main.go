package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/exchangehouse/exchange_house_app/internal/core/services"
	"github.com/exchangehouse/exchange_house_app/internal/handlers"
	"github.com/exchangehouse/exchange_house_app/internal/integrations/healthchecks"
	"github.com/exchangehouse/exchange_house_app/internal/integrations/openexchangerates"
	"github.com/exchangehouse/exchange_house_app/internal/middleware"
	"github.com/exchangehouse/exchange_house_app/internal/platform/config"
	"github.com/exchangehouse/exchange_house_app/internal/repositories/database/pgsql"
	"github.com/exchangehouse/exchange_house_app/internal/scheduler"
	"github.com/exchangehouse/exchange_house_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Exchange House API
// @version 1.0
// @description Currency exchange rate store and query API.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Upstream provider and health-check clients
	provider, err := openexchangerates.NewClient(cfg.OpenExchangeRatesAppID, cfg.OpenExchangeRatesBaseURL, cfg.ProviderTimeout)
	if err != nil {
		logger.Error("Failed to initialize rate provider client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	healthcheck := healthchecks.NewClient(cfg.HeartbeatCheckURL, cfg.RefreshCompletedURL)

	// Wire repositories and services
	repoProvider := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(repoProvider, provider, healthcheck, cfg)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Failed to initialize rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(rateLimiter))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	// Run the HTTP server and the scheduler side by side until a signal arrives.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		sched := scheduler.New(serviceContainer.Refresh, serviceContainer.Healthcheck, cfg, logger)
		return sched.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

// runMigrations applies every pending "up" migration from the migrations directory.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	// Open a temporary standard sql.DB connection for migrations,
	// using the pgx/v5/stdlib driver to stay compatible with the main pool.
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
