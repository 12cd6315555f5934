package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonesrussell/shorty/internal/api"
	"github.com/jonesrussell/shorty/internal/auth"
	"github.com/jonesrussell/shorty/internal/config"
	"github.com/jonesrussell/shorty/internal/handler"
	"github.com/jonesrussell/shorty/internal/logger"
	"github.com/jonesrussell/shorty/internal/metrics"
	"github.com/jonesrussell/shorty/internal/middleware"
	"github.com/jonesrussell/shorty/internal/profiling"
	"github.com/jonesrussell/shorty/internal/shortener"
	"github.com/jonesrussell/shorty/internal/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	// Initialize logger
	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	// Start profiling server (if enabled)
	profiling.StartPprofServer(log)

	// Connect to database
	db, err := storage.NewPostgresConnection(&cfg.Database)
	if err != nil {
		log.Error("Failed to connect to database", logger.Error(err))
		return 1
	}
	defer func() { _ = db.Close() }()

	log.Info("Database connected",
		logger.String("host", cfg.Database.Host),
		logger.Int("port", cfg.Database.Port),
		logger.String("database", cfg.Database.Database),
	)

	return runServer(cfg, log, db)
}

// loadConfig loads and validates configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.GetConfigPath("config.yml"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("validate config: %w", validationErr)
	}
	return cfg, nil
}

// createLogger creates a logger instance from configuration.
func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}

// runServer creates all dependencies and starts the HTTP server.
func runServer(cfg *config.Config, log logger.Logger, db *sqlx.DB) int {
	// Repositories
	links := storage.NewLinkRepository(db)
	namespaces := storage.NewNamespaceRepository(db)
	owners := storage.NewOwnerRepository(db)

	// Metrics registry shared by the service and the /metrics endpoint
	registry := prometheus.NewRegistry()
	serviceMetrics := metrics.New(registry)

	// Core service
	svc := shortener.New(links, namespaces, owners, log, serviceMetrics)

	// Auth
	jwtManager := auth.NewJWTManager(cfg.Service.JWTSecret, cfg.Service.TokenTTL)
	authenticator := auth.NewStaticAuthenticator(cfg.Auth.Users)

	// Rate limiter for public resolution routes
	limiter := middleware.NewRateLimiter(cfg.RateLimit)
	defer limiter.Stop()

	handlers := api.Handlers{
		Redirect: handler.NewRedirectHandler(svc),
		Links:    handler.NewLinksHandler(svc, log),
		Auth:     handler.NewAuthHandler(authenticator, jwtManager, cfg.Service.TokenTTL, log),
		Health:   handler.NewHealthHandler(cfg.Service.Version, db),
	}

	server := api.NewServer(cfg, log, func(router *gin.Engine) {
		api.SetupRoutes(router, handlers,
			middleware.RequireAuth(jwtManager, owners, log),
			limiter.Middleware(),
			registry,
		)
	})

	log.Info("Shorty starting",
		logger.Int("port", cfg.Service.Port),
	)

	if err := server.RunWithGracefulShutdown(context.Background()); err != nil {
		log.Error("Server error", logger.Error(err))
		return 1
	}

	log.Info("Shorty exited cleanly")
	return 0
}
