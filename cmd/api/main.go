package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	accrualUseCase "github.com/litepremium/coin-engine/internal/domain/usecase/accrual"
	catalogUseCase "github.com/litepremium/coin-engine/internal/domain/usecase/catalog"
	ledgerUseCase "github.com/litepremium/coin-engine/internal/domain/usecase/ledger"
	requestUseCase "github.com/litepremium/coin-engine/internal/domain/usecase/request"
	settingsUseCase "github.com/litepremium/coin-engine/internal/domain/usecase/settings"
	userUseCase "github.com/litepremium/coin-engine/internal/domain/usecase/user"

	"github.com/litepremium/coin-engine/internal/infrastructure/adapter/api/handler"
	"github.com/litepremium/coin-engine/internal/infrastructure/adapter/api/middleware"
	"github.com/litepremium/coin-engine/internal/infrastructure/adapter/api/routes"
	"github.com/litepremium/coin-engine/internal/infrastructure/adapter/database"
	"github.com/litepremium/coin-engine/internal/infrastructure/adapter/database/migration"
	"github.com/litepremium/coin-engine/internal/infrastructure/adapter/logger"
	timeProvider "github.com/litepremium/coin-engine/internal/infrastructure/adapter/time"
	"github.com/litepremium/coin-engine/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate essential configuration
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)
	defer appLogger.Flush()

	// Initialize time provider
	tp := timeProvider.NewRealTimeProvider()

	// Connect to the database
	dbManager := database.NewManager(database.FromAppConfig(cfg), appLogger, tp)
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer dbManager.Close()

	// Run migrations and seed defaults
	migrationMgr := migration.NewManager(dbManager.DB(), appLogger, tp)
	if err := migrationMgr.Run(context.Background()); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Unit of work over the shared connection pool
	uow := dbManager.CreateUnitOfWork()

	// Balance engine core
	serializer := ledgerUseCase.NewUserSerializer(cfg.Engine.QueueSize, appLogger)
	store := ledgerUseCase.NewStore(uow, serializer, tp, appLogger)
	accrualEngine := accrualUseCase.NewEngine(uow, tp, appLogger)

	// Initialize use cases
	userService := userUseCase.NewService(uow, store, accrualEngine, tp, appLogger)
	catalogService := catalogUseCase.NewService(uow, store, accrualEngine, tp, appLogger)
	requestService := requestUseCase.NewService(uow, store, accrualEngine, tp, appLogger)
	settingsService := settingsUseCase.NewService(uow, tp, appLogger)

	// Redis-backed rate limiter, optional
	var rateLimiter *middleware.RateLimiter
	if cfg.Redis.Enabled {
		rateLimiter = middleware.NewRateLimiter(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, appLogger)
		defer rateLimiter.Close()
	}

	// Initialize API handlers
	handlers := routes.Handlers{
		User:    handler.NewUserHandler(userService, appLogger),
		Catalog: handler.NewCatalogHandler(catalogService, appLogger),
		Request: handler.NewRequestHandler(requestService, appLogger),
		Admin:   handler.NewAdminHandler(userService, settingsService, appLogger),
	}

	// Initialize Gin router
	router := gin.New()
	routes.SetupMiddlewares(router, appLogger, rateLimiter, cfg.Redis.RateLimit, cfg.Redis.RateLimitWindow)
	routes.SetupRoutes(router, handlers, cfg.Admin.Token, appLogger)

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr": server.Addr,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Stop accepting requests first, then drain per-user queues
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}
	serializer.Shutdown()

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missing []string

	if cfg.Server.Port == 0 {
		missing = append(missing, "server.port")
	}
	if cfg.Server.ReadTimeout == 0 {
		missing = append(missing, "server.readTimeout")
	}
	if cfg.Server.WriteTimeout == 0 {
		missing = append(missing, "server.writeTimeout")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missing = append(missing, "server.shutdownTimeout")
	}

	if cfg.Database.Host == "" {
		missing = append(missing, "database.host (or CE_DB_HOST environment variable)")
	}
	if cfg.Database.Port == "" {
		missing = append(missing, "database.port (or CE_DB_PORT environment variable)")
	}
	if cfg.Database.Username == "" {
		missing = append(missing, "database.username (or CE_DB_USERNAME environment variable)")
	}
	if cfg.Database.Database == "" {
		missing = append(missing, "database.database (or CE_DB_NAME environment variable)")
	}

	if cfg.Environment == "" {
		missing = append(missing, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if cfg.Logger.Level == "" {
		missing = append(missing, "logger.level")
	}

	if cfg.Environment == config.Production && cfg.Admin.Token == "" {
		missing = append(missing, "admin.token (or CE_ADMIN_TOKEN environment variable)")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configurations: %v", missing)
	}

	return nil
}
