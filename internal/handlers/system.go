package handlers

import (
	"time"

	"github.com/esxi-monitor/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var startTime = time.Now()
var Version = "1.0.0"

type SystemHandler struct {
	db   *gorm.DB
	sync *services.SyncService
}

func NewSystemHandler(db *gorm.DB, sync *services.SyncService) *SystemHandler {
	return &SystemHandler{db: db, sync: sync}
}

func (h *SystemHandler) Health(c *fiber.Ctx) error {
	dbStatus := "ok"
	statusCode := fiber.StatusOK

	sqlDB, err := h.db.DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		statusCode = fiber.StatusServiceUnavailable
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "unreachable: " + err.Error()
		statusCode = fiber.StatusServiceUnavailable
	}

	overall := "ok"
	if statusCode != fiber.StatusOK {
		overall = "degraded"
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status":  overall,
		"service": "esxi-monitor",
		"version": Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
		"uptime":  time.Since(startTime).String(),
		"db":      dbStatus,
	})
}

func (h *SystemHandler) DashboardOverview(c *fiber.Ctx) error {
	var vmTotal, vmRunning, vmStopped int64
	h.db.Table("vms").Count(&vmTotal)
	h.db.Table("vms").Where("status = ?", "running").Count(&vmRunning)
	h.db.Table("vms").Where("status = ?", "stopped").Count(&vmStopped)

	var hostCount, userCount int64
	h.db.Table("hosts").Count(&hostCount)
	h.db.Table("users").Where("deleted_at IS NULL").Count(&userCount)

	var recentEvents, recentLogins int64
	since := time.Now().Add(-24 * time.Hour)
	h.db.Table("audit_events").Where("created_at > ?", since).Count(&recentEvents)
	h.db.Table("audit_events").
		Where("created_at > ? AND action = ?", since, "login_success").
		Count(&recentLogins)

	return c.JSON(fiber.Map{
		"hosts": hostCount,
		"vms": fiber.Map{
			"total":   vmTotal,
			"running": vmRunning,
			"stopped": vmStopped,
		},
		"audit_24h": fiber.Map{
			"events": recentEvents,
			"logins": recentLogins,
		},
		"users": userCount,
		"sync":  h.sync.Status(),
	})
}
