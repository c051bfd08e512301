package routes

import (
	"github.com/esxi-monitor/backend/internal/config"
	"github.com/esxi-monitor/backend/internal/handlers"
	"github.com/esxi-monitor/backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	hostHandler *handlers.HostHandler,
	vmHandler *handlers.VMHandler,
	auditHandler *handlers.AuditHandler,
	metricsHandler *handlers.MetricsHandler,
	syncHandler *handlers.SyncHandler,
	eventsHandler *handlers.EventsHandler,
	systemHandler *handlers.SystemHandler,
) {
	// ─── Public ──────────────────────────────────────────────────────────
	app.Get("/api/health", systemHandler.Health)
	app.Post("/api/auth/login", authHandler.Login)

	// ─── Protected routes ────────────────────────────────────────────────
	api := app.Group("/api", middleware.JWTProtected(cfg.JWTSecret))

	api.Get("/auth/me", authHandler.Me)

	// Dashboard
	api.Get("/dashboard/overview", systemHandler.DashboardOverview)

	// ESXi host
	api.Get("/host", hostHandler.GetHost)
	api.Get("/host/metrics", hostHandler.GetLiveMetrics)

	// Virtual machines
	api.Get("/vms", vmHandler.ListVMs)
	api.Get("/vms/:id", vmHandler.GetVM)

	// Audit & action logs
	api.Get("/audit", auditHandler.ListAuditEvents)
	api.Get("/actions", auditHandler.ListActionLogs)

	// Metrics
	api.Get("/metrics/latest", metricsHandler.LatestMetrics)

	// Sync
	api.Get("/sync/status", syncHandler.Status)
	api.Post("/sync/now", syncHandler.TriggerNow)
	api.Use("/sync/events", eventsHandler.UpgradeCheck())
	api.Get("/sync/events", eventsHandler.HandleEvents())

	// Users (admin only)
	users := api.Group("/users", middleware.AdminOnly())
	users.Get("/", userHandler.ListUsers)
	users.Post("/", userHandler.CreateUser)
	users.Delete("/:id", userHandler.DeleteUser)
}
