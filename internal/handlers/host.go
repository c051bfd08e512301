package handlers

import (
	"github.com/esxi-monitor/backend/internal/models"
	"github.com/esxi-monitor/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HostHandler struct {
	db     *gorm.DB
	source services.Source
}

func NewHostHandler(db *gorm.DB, source services.Source) *HostHandler {
	return &HostHandler{db: db, source: source}
}

// GetHost returns the synchronized hypervisor configuration from the
// database.
func (h *HostHandler) GetHost(c *fiber.Ctx) error {
	var host models.Host
	if err := h.db.Order("updated_at DESC").First(&host).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "No host configuration synced yet",
		})
	}
	return c.JSON(host)
}

// GetLiveMetrics scrapes current utilisation from the host, bypassing the
// sync cycle.
func (h *HostHandler) GetLiveMetrics(c *fiber.Ctx) error {
	if !h.source.Connected() {
		if err := h.source.Connect(); err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error":   true,
				"message": "ESXi host unreachable",
			})
		}
	}

	sample, err := h.source.FetchMetrics()
	if err != nil || sample == nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to fetch host metrics",
		})
	}

	return c.JSON(fiber.Map{
		"host":           h.source.Host(),
		"cpu_percent":    sample.CPUPercent,
		"memory_percent": sample.MemoryPercent,
		"uptime_hours":   sample.UptimeHours,
	})
}
