package handlers

import (
	"strconv"

	"github.com/esxi-monitor/backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MetricsHandler struct {
	db *gorm.DB
}

func NewMetricsHandler(db *gorm.DB) *MetricsHandler {
	return &MetricsHandler{db: db}
}

// LatestMetrics returns the most recent host utilisation samples, newest
// first.
func (h *MetricsHandler) LatestMetrics(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit < 1 || limit > 500 {
		limit = 50
	}

	var metrics []models.Metric
	if err := h.db.Order("collected_at DESC").Limit(limit).Find(&metrics).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to list metrics",
		})
	}
	return c.JSON(fiber.Map{"metrics": metrics})
}
