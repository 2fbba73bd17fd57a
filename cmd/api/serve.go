package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"applicantreview/internal/config"
	"applicantreview/internal/database"
	"applicantreview/internal/database/migration"
	handlers "applicantreview/internal/http/handler"
	"applicantreview/internal/http/middleware"
	"applicantreview/internal/model"
	"applicantreview/internal/notify"
	apiotel "applicantreview/internal/otel"
	"applicantreview/internal/repository/postgres"
	"applicantreview/internal/resume"
	"applicantreview/internal/service"
	"applicantreview/internal/storage"
)

const (
	bodyLimit       = 10 << 20
	shutdownTimeout = 10 * time.Second
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), ctx.cfg, ctx.logger)
		},
	}
}

func runServe(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	shutdownTracing, err := apiotel.Init(ctx, logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	db, err := openMigrated(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	blobs, err := storage.New(cfg)
	if err != nil {
		return fmt.Errorf("init resume storage: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	notifier, err := notify.NewFromConfig(cfg.Mail, logger, reg)
	if err != nil {
		return fmt.Errorf("init notifications: %w", err)
	}

	svc := service.NewApplicantService(
		postgres.NewApplicantPostgres(db),
		resume.NewStore(blobs),
		notifier,
		service.Options{
			Policy:                model.PolicyByName(cfg.Workflow.StatusPolicy),
			CleanupResumeOnDelete: cfg.Storage.CleanupOnDelete,
			Logger:                logger,
		},
	)

	prom, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "applicant-review",
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(prom.Handler())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(cfg.AllowedOrigins, ","),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders: "Content-Disposition, X-Request-ID",
	}))

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:         db,
		Applicants: svc,
		Notifier:   notifier,
		Gatherer:   reg,
		AdminToken: cfg.AdminToken,
		PublicHost: cfg.AppHost,
		Logger:     logger,
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(addr)
	}()
	logger.Info("server started",
		slog.String("event", "server_started"),
		slog.String("addr", addr),
		slog.String("storage_backend", cfg.Storage.Backend),
		slog.String("status_policy", cfg.Workflow.StatusPolicy),
	)

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
		logger.Info("server stopping", slog.String("event", "server_stopping"))
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func openMigrated(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return db, nil
}
