package handlers

import (
	"github.com/esxi-monitor/backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type VMHandler struct {
	db *gorm.DB
}

func NewVMHandler(db *gorm.DB) *VMHandler {
	return &VMHandler{db: db}
}

func (h *VMHandler) ListVMs(c *fiber.Ctx) error {
	query := h.db.Order("name ASC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var vms []models.VM
	if err := query.Find(&vms).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to list VMs",
		})
	}
	return c.JSON(fiber.Map{"vms": vms})
}

func (h *VMHandler) GetVM(c *fiber.Ctx) error {
	var vm models.VM
	if err := h.db.First(&vm, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "VM not found",
		})
	}
	return c.JSON(vm)
}
