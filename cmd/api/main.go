package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"assetreg/internal/config"
	"assetreg/internal/database"
	"assetreg/internal/database/migration"
	handlers "assetreg/internal/http/handler"
	"assetreg/internal/http/middleware"
	"assetreg/internal/otel"
	"assetreg/internal/repository/postgres"
	"assetreg/internal/service"
	"assetreg/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// PostgreSQL connection with pooling via database/sql
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// S3-compatible object storage for evidence materials
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Repositories, transactional boundary and services
	assetRepo := postgres.NewAssetPostgres(db)
	orgRepo := postgres.NewOrganizationPostgres(db)
	recordRepo := postgres.NewStageRecordPostgres(db)
	materialRepo := postgres.NewMaterialPostgres(db)
	auditRepo := postgres.NewAuditPostgres(db)
	tx := postgres.NewTx(db)

	svc := handlers.Services{
		Assets:    service.NewAssetService(tx, assetRepo),
		Lifecycle: service.NewLifecycleService(tx, recordRepo, cfg.StageReviewers),
		Materials: service.NewMaterialService(tx, recordRepo, materialRepo, objStore),
		Audit:     service.NewAuditService(auditRepo, cfg.Audit),
		Stats:     service.NewStatsService(assetRepo, orgRepo),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Global middleware: request IDs, gateway identity, JSON request logs,
	// HTTP metrics.
	app.Use(middleware.RequestID())
	app.Use(middleware.Actor())
	app.Use(middleware.Logger())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, db, svc)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
