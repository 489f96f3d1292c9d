package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"scholarport/docs"
	"scholarport/internal/config"
	"scholarport/internal/database"
	"scholarport/internal/database/migration"
	handlers "scholarport/internal/http/handler"
	"scholarport/internal/http/middleware"
	"scholarport/internal/logging"
	tracing "scholarport/internal/otel"
	"scholarport/internal/repository/postgres"
	"scholarport/internal/service"
	"scholarport/internal/storage"
)

// @title ScholarPort API
// @version 1.0
// @description Academic portfolio of articles and their citations.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.Location())
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, logger)
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}

	db, err := database.NewPostgres(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if err := database.RegisterMetrics(prometheus.DefaultRegisterer, db); err != nil {
		logger.Warn("database pool metrics unavailable", zap.Error(err))
	}

	if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Object storage only backs up the portfolio; the API runs without it.
	var objStore storage.Storage
	if cfg.MinIO.Enabled() {
		objStore, err = storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			logger.Fatal("failed to initialize object storage", zap.Error(err))
		}
	} else {
		logger.Warn("object storage disabled, backups unavailable")
	}

	articleRepo := postgres.NewArticlePostgres(db)
	citationRepo := postgres.NewCitationPostgres(db)
	articleSvc := service.NewArticleService(postgres.NewTxManager(db), articleRepo, citationRepo)
	citationSvc := service.NewCitationService(articleRepo, citationRepo)

	backupSvc, err := service.NewBackupService(articleSvc, objStore, cfg.Backup, prometheus.DefaultRegisterer, logger)
	if err != nil {
		logger.Fatal("failed to register backup metrics", zap.Error(err))
	}
	if cfg.Backup.Schedule != "" && objStore != nil {
		scheduler, err := service.ScheduleBackups(cfg.Backup.Schedule, backupSvc, logger)
		if err != nil {
			logger.Fatal("failed to schedule backups", zap.Error(err))
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Info("backups scheduled", zap.String("schedule", cfg.Backup.Schedule), zap.Int("keep", cfg.Backup.Keep))
	}

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal("failed to register http metrics", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:      "scholarport",
		ErrorHandler: handlers.ErrorHandler(),
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(promMiddleware.Handler())

	app.Get(middleware.MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:        db,
		Articles:  articleSvc,
		Citations: citationSvc,
		Backups:   backupSvc,
	})

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

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	logger.Info("starting server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", zap.Error(err))
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		logger.Warn("tracing shutdown failed", zap.Error(err))
	}
}
