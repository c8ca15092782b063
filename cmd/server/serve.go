package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/cobra"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/config"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/database"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/dto"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/events"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/logging"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/persistence"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/roster"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/routes"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/services"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/session"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdout := logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Credential roster
	provider := roster.Default()
	if cfg.CredentialsPath != "" {
		loaded, err := roster.LoadFromFile(cfg.CredentialsPath)
		if err != nil {
			return fmt.Errorf("load credentials %s: %w", cfg.CredentialsPath, err)
		}
		provider = loaded
	}
	slog.Info("credential roster loaded", "roles", provider.Count())

	// Report storage
	kv, closeStorage, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	var ping func() error
	cleanupDone := make(chan struct{})
	defer close(cleanupDone)
	if cfg.StorageDriver == config.StoragePostgres {
		ping = database.Ping

		// PostgreSQL log handler (ERROR+ async batch)
		pgLogHandler := logging.NewPGHandler(database.DB)
		defer pgLogHandler.Stop()
		slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, pgLogHandler)))

		logging.StartCleanup(database.DB, cfg.LogRetention, cleanupDone)
	}

	// Report photos
	var images storage.ImageStore = storage.NewInlineStore()
	if cfg.ImageStore == config.ImageStoreS3 {
		images = storage.NewS3Store(storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicURL:       cfg.S3PublicURL,
		})
	}

	producer := events.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer func() {
		if err := producer.Close(); err != nil {
			slog.Error("event producer close error", "error", err)
		}
	}()

	// Sessions
	sessions := session.NewStore(cfg.SessionTTL)
	sweeperDone := make(chan struct{})
	defer close(sweeperDone)
	sessions.StartSweeper(time.Minute, sweeperDone)

	// Services
	loadCtx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	adapter := persistence.NewAdapter(kv, cfg.StorageNamespace)
	reportService, err := services.NewReportService(loadCtx, adapter, provider, images, producer)
	cancel()
	if err != nil {
		return fmt.Errorf("load reports: %w", err)
	}
	slog.Info("reports loaded", "count", reportService.Count(), "storage", cfg.StorageDriver)
	authService := services.NewAuthService(provider, sessions, cfg.JWTSecret)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    2 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, authService, routes.Handlers{
		Auth:   handlers.NewAuthHandler(authService),
		Health: handlers.NewHealthHandler(reportService, sessions, ping),
		Report: handlers.NewReportHandler(reportService),
		Geo:    handlers.NewGeoHandler(),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	slog.Info("server stopped")
	return nil
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}
