package main

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"auditapi/docs"
	"auditapi/internal/config"
	"auditapi/internal/database"
	"auditapi/internal/database/migration"
	handlers "auditapi/internal/http/handler"
	"auditapi/internal/http/middleware"
	"auditapi/internal/logger"
	"auditapi/internal/otel"
	"auditapi/internal/repository/postgres"
	"auditapi/internal/service"
	"auditapi/internal/storage"
)

// @title Audit Explanation API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	logger.Init(cfg.Log)
	log := logger.Get()

	ctx := context.Background()
	loc := time.UTC

	// Tracing degrades to a noop provider when the exporter is unreachable
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize tracing")
	}
	defer shutdownTracing(ctx)

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.WithError(err).Fatal("failed to run database migrations")
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize object storage")
	}

	// Initialize repositories and services
	requestRepo := postgres.NewRequestPostgres(db)
	fileRepo := postgres.NewFilePostgres(db)
	contentRepo := postgres.NewContentPostgres(db)
	actorRepo := postgres.NewActorPostgres(db)

	attSvc := service.NewAttachmentService(objStore, fileRepo)
	reqSvc := service.NewRequestService(requestRepo, fileRepo, contentRepo, actorRepo, attSvc)
	contentSvc := service.NewContentService(contentRepo, requestRepo, attSvc)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	registry := prometheus.NewRegistry()
	promMW, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.WithError(err).Fatal("failed to register http metrics")
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	stalePending := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "explanation_requests_stale_pending",
		Help: "Pending explanation requests older than the configured staleness cutoff.",
	})
	registry.MustRegister(stalePending)

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, middleware.Actor(cfg.Auth.JWTSecret), actorRepo, reqSvc, contentSvc)

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

	// Periodic sweep: surface pending requests nobody has answered for too
	// long. The job only observes; it never mutates workflow state.
	staleAfter := time.Duration(cfg.Sweep.StaleAfterHours) * time.Hour
	sweeper := cron.New(cron.WithLocation(loc))
	if _, err := sweeper.AddFunc(cfg.Sweep.CronSpec, func() {
		count, err := reqSvc.CountStalePending(context.Background(), staleAfter)
		if err != nil {
			log.WithError(err).Error("stale pending sweep failed")
			return
		}
		stalePending.Set(float64(count))
		if count > 0 {
			log.WithField("count", count).
				WithField("older_than", staleAfter.String()).
				Warn("pending explanation requests without a response")
		}
	}); err != nil {
		log.WithError(err).Fatal("invalid sweep cron spec")
	}
	sweeper.Start()
	defer sweeper.Stop()

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}
