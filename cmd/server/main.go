package main

import (
	"context"
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

	"github.com/brianyyz/ShareRidesV2Server/internal/config"
	"github.com/brianyyz/ShareRidesV2Server/internal/database"
	"github.com/brianyyz/ShareRidesV2Server/internal/handlers"
	"github.com/brianyyz/ShareRidesV2Server/internal/logging"
	"github.com/brianyyz/ShareRidesV2Server/internal/middleware"
	"github.com/brianyyz/ShareRidesV2Server/internal/push"
	"github.com/brianyyz/ShareRidesV2Server/internal/routes"
	"github.com/brianyyz/ShareRidesV2Server/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Bootstrap()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.AttachDatabase(database.DB)

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Push delivery: AMQP when configured, log-only otherwise
	var sender push.Sender = push.LogSender{}
	if cfg.AMQPURL != "" {
		amqpSender, err := push.NewAMQPSender(context.Background(), cfg.AMQPURL, cfg.PushExchange)
		if err != nil {
			slog.Error("amqp connection failed", "error", err)
			os.Exit(1)
		}
		defer amqpSender.Close()
		sender = amqpSender
	} else {
		slog.Warn("AMQP_URL not set, push notifications are log-only")
	}
	pusher := push.NewDispatcher(database.DB, sender, cfg.InformAdmin)

	// Services
	requestService := services.NewRequestService(database.DB, cfg, pusher)
	rideService := services.NewRideService(database.DB, cfg, pusher, requestService)
	installationService := services.NewInstallationService(database.DB, pusher)
	teamService := services.NewTeamService(database.DB, pusher, installationService)
	userService := services.NewUserService(database.DB, pusher)
	statusService := services.NewStatusService(database.DB)
	messageService := services.NewMessageService(database.DB, pusher)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	statusHandler := handlers.NewStatusHandler(statusService)
	userHandler := handlers.NewUserHandler(userService)
	installationHandler := handlers.NewInstallationHandler(installationService)
	rideHandler := handlers.NewRideHandler(rideService, messageService)
	requestHandler := handlers.NewRequestHandler(requestService)
	teamHandler := handlers.NewTeamHandler(teamService)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
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

	// Routes
	routes.Setup(app, cfg, database.DB,
		healthHandler, statusHandler, userHandler, installationHandler,
		rideHandler, requestHandler, teamHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
