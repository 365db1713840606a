package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations

	"github.com/agrimind-ai/agrimind-engine/pkg/config"
	"github.com/agrimind-ai/agrimind-engine/pkg/database"
	"github.com/agrimind-ai/agrimind-engine/pkg/handlers"
	"github.com/agrimind-ai/agrimind-engine/pkg/logging"
	"github.com/agrimind-ai/agrimind-engine/pkg/repositories"
	"github.com/agrimind-ai/agrimind-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("port", cfg.Port),
		zap.String("product", cfg.Product.Name),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
	)

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.URL(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// golang-migrate requires database/sql
	sqlDB, err := sql.Open("pgx", cfg.Database.URL())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = sqlDB.Close()

	// Repositories
	analysisRepo := repositories.NewAnalysisResultRepository()
	convRepo := repositories.NewConversationRepository()
	recRepo := repositories.NewRecommendationRepository()

	// Services
	engine := services.NewRecommendationEngine(cfg.Product.Name)
	recService := services.NewRecommendationService(
		engine,
		database.NewUserScopeProvider(db),
		analysisRepo,
		convRepo,
		recRepo,
		logger,
	)

	// HTTP surface
	mux := http.NewServeMux()
	userMiddleware := handlers.UserMiddleware(database.WithUserContext(db, logger))

	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewRecommendationHandler(recService, logger).RegisterRoutes(mux, userMiddleware)
	handlers.NewAnalysisResultHandler(analysisRepo, logger).RegisterRoutes(mux, userMiddleware)
	handlers.NewConversationHandler(convRepo, logger).RegisterRoutes(mux, userMiddleware)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting agrimind-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version),
	)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
