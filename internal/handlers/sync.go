package handlers

import (
	"github.com/esxi-monitor/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SyncHandler struct {
	svc *services.SyncService
}

func NewSyncHandler(svc *services.SyncService) *SyncHandler {
	return &SyncHandler{svc: svc}
}

// Status returns the current sync snapshot without touching the network.
func (h *SyncHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.svc.Status())
}

// TriggerNow schedules a sync cycle and returns immediately. The trigger
// is fire-and-forget: the response acknowledges scheduling, not
// completion, and a cycle already in progress makes this a no-op.
func (h *SyncHandler) TriggerNow(c *fiber.Ctx) error {
	h.svc.TriggerNow()
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Sync scheduled",
		"status":  h.svc.Status(),
	})
}
