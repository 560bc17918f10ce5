package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"auditapi/docs"
	"auditapi/internal/auth"
	"auditapi/internal/config"
	"auditapi/internal/database"
	"auditapi/internal/database/migration"
	handlers "auditapi/internal/http/handler"
	"auditapi/internal/http/middleware"
	appotel "auditapi/internal/otel"
	"auditapi/internal/pdf"
	"auditapi/internal/repository/postgres"
	"auditapi/internal/service"
	"auditapi/internal/storage"
)

// @title Audit API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.UTC

	// Tracing first so every later init is observable
	shutdownTracing, err := appotel.Init(context.Background(), loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(context.Background(), db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Repositories
	auditRepo := postgres.NewAuditPostgres(db)
	ledgerRepo := postgres.NewLedgerPostgres(db)
	userRepo := postgres.NewUserPostgres(db)

	// Collaborators
	tokens := auth.NewTokenManager(auth.TokenConfig{
		Issuer:     cfg.Auth.Issuer,
		SigningKey: []byte(cfg.Auth.SigningKey),
		AccessTTL:  cfg.Auth.AccessTTL,
	})
	renderer := pdf.New(pdf.Config{
		Fetcher: pdf.NewHTTPImageFetcher(cfg.Render.ImageFetchTimeout),
	})

	// Services
	tmplSvc := service.NewTemplateService(auditRepo)
	auditSvc := service.NewAuditService(auditRepo, ledgerRepo, objStore, renderer, cfg.Render)
	authSvc := service.NewAuthService(userRepo, tokens)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, tmplSvc, auditSvc, authSvc, middleware.AuthGuard(tokens))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
