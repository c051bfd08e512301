package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/esxi-monitor/backend/internal/config"
	"github.com/esxi-monitor/backend/internal/database"
	"github.com/esxi-monitor/backend/internal/esxi"
	"github.com/esxi-monitor/backend/internal/handlers"
	"github.com/esxi-monitor/backend/internal/notify"
	"github.com/esxi-monitor/backend/internal/routes"
	"github.com/esxi-monitor/backend/internal/services"
	"github.com/esxi-monitor/backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// JSON structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting ESXi monitor", "version", handlers.Version)

	// ─── Config ──────────────────────────────────────────────────────────
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	// ─── Database ────────────────────────────────────────────────────────
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	if err := database.SeedUsers(db, cfg); err != nil {
		slog.Error("User seeding failed", "error", err)
		os.Exit(1)
	}

	// ─── Telegram ────────────────────────────────────────────────────────
	notifier := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
	if notifier.Enabled() {
		slog.Info("Telegram notifications enabled")
	} else {
		slog.Warn("TELEGRAM_BOT_TOKEN not set, notifications disabled")
	}

	// ─── ESXi Sync ───────────────────────────────────────────────────────
	esxiClient := esxi.NewClient(cfg.ESXiHost, cfg.ESXiUser, cfg.ESXiPassword, cfg.ESXiSSHPort)
	hub := services.NewHub()
	syncService := services.NewSyncService(
		esxiClient,
		store.New(db),
		notifier,
		hub,
		time.Duration(cfg.SyncInterval)*time.Second,
		cfg.SyncRetryOnStart,
	)
	syncService.Start()

	// ─── Handlers ───────────────────────────────────────────────────────
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db, notifier)
	hostHandler := handlers.NewHostHandler(db, esxiClient)
	vmHandler := handlers.NewVMHandler(db)
	auditHandler := handlers.NewAuditHandler(db)
	metricsHandler := handlers.NewMetricsHandler(db)
	syncHandler := handlers.NewSyncHandler(syncService)
	eventsHandler := handlers.NewEventsHandler(hub)
	systemHandler := handlers.NewSystemHandler(db, syncService)

	// ─── Fiber App ──────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      "esxi-monitor v" + handlers.Version,
		ServerHeader: "esxi-monitor",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal server error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": message,
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, OPTIONS",
	}))

	app.Use(recover.New(recover.Config{
		EnableStackTrace: false,
	}))

	// Security headers
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Request logger
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if c.Path() == "/api/health" {
			return err
		}
		slog.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.IP(),
		)
		return err
	})

	// ─── Routes ─────────────────────────────────────────────────────────
	routes.Setup(app, cfg, authHandler, userHandler, hostHandler, vmHandler,
		auditHandler, metricsHandler, syncHandler, eventsHandler, systemHandler)

	// ─── Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		slog.Info("Shutting down ESXi monitor...")

		syncService.Stop()

		if err := app.Shutdown(); err != nil {
			slog.Error("Fiber shutdown error", "error", err)
		}

		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	// ─── Start ──────────────────────────────────────────────────────────
	listenAddr := ":" + cfg.Port
	slog.Info("ESXi monitor listening", "addr", listenAddr)

	if err := app.Listen(listenAddr); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}
