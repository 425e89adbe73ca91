package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations
	"go.uber.org/zap"

	"github.com/stocktrail-io/stocktrail/pkg/auth"
	"github.com/stocktrail-io/stocktrail/pkg/config"
	"github.com/stocktrail-io/stocktrail/pkg/database"
	"github.com/stocktrail-io/stocktrail/pkg/handlers"
	"github.com/stocktrail-io/stocktrail/pkg/logging"
	"github.com/stocktrail-io/stocktrail/pkg/middleware"
	"github.com/stocktrail-io/stocktrail/pkg/repositories"
	"github.com/stocktrail-io/stocktrail/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.URL())))

	// Apply migrations over database/sql, then open the pgx pool.
	sqlDB, err := sql.Open("pgx", cfg.Database.URL())
	if err != nil {
		logger.Fatal("Failed to open database for migrations",
			zap.String("error", logging.SanitizeError(err)))
	}
	if err := database.RunMigrations(sqlDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("Failed to close migration connection", zap.Error(err))
	}

	ctx := context.Background()
	db, err := database.NewConnection(ctx, &database.Config{
		URL:             cfg.Database.URL(),
		MaxConnections:  cfg.Database.MaxConnections,
		MaxConnLifetime: cfg.Database.ConnLifetime,
		MaxConnIdleTime: cfg.Database.ConnIdleTime,
	})
	if err != nil {
		// Connection errors can embed the full URL, credentials included.
		logger.Fatal("Failed to connect to database",
			zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	productRepo := repositories.NewProductRepository(db)
	auditRepo := repositories.NewAuditRepository(db)

	// Services
	tokenService := auth.NewTokenService([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	authService := auth.NewAuthService(tokenService, logger)
	auditService := services.NewAuditService(auditRepo, logger)
	userService := services.NewUserService(userRepo, logger)
	productService := services.NewProductService(productRepo, auditService, logger)
	importService := services.NewImportService(productService, logger)

	authMiddleware := auth.NewMiddleware(authService, logger)

	mux := http.NewServeMux()

	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(userService, tokenService, logger).RegisterRoutes(mux)
	handlers.NewProductsHandler(productService, importService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewUsersHandler(userService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewAuditHandler(auditService, logger).RegisterRoutes(mux, authMiddleware)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting stocktrail",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
