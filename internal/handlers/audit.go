package handlers

import (
	"strconv"

	"github.com/esxi-monitor/backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuditHandler struct {
	db *gorm.DB
}

func NewAuditHandler(db *gorm.DB) *AuditHandler {
	return &AuditHandler{db: db}
}

// ListAuditEvents returns paginated ESXi audit events, filterable by
// username and action.
func (h *AuditHandler) ListAuditEvents(c *fiber.Ctx) error {
	page, perPage := pagination(c)

	query := h.db.Model(&models.AuditEvent{})
	if username := c.Query("username"); username != "" {
		query = query.Where("username = ?", username)
	}
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}

	var total int64
	query.Count(&total)

	var events []models.AuditEvent
	if err := query.Order("timestamp DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&events).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to list audit events",
		})
	}

	return c.JSON(fiber.Map{
		"events":   events,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// ListActionLogs returns the paginated backend action log (sync outcomes
// and user-management operations).
func (h *AuditHandler) ListActionLogs(c *fiber.Ctx) error {
	page, perPage := pagination(c)

	query := h.db.Model(&models.ActionLog{})
	if actor := c.Query("actor"); actor != "" {
		query = query.Where("actor = ?", actor)
	}

	var total int64
	query.Count(&total)

	var logs []models.ActionLog
	if err := query.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&logs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to list action logs",
		})
	}

	return c.JSON(fiber.Map{
		"logs":     logs,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

func pagination(c *fiber.Ctx) (page, perPage int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	perPage, _ = strconv.Atoi(c.Query("per_page", "50"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}
	return page, perPage
}
