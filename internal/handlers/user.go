package handlers

import (
	"log/slog"

	"github.com/esxi-monitor/backend/internal/models"
	"github.com/esxi-monitor/backend/internal/notify"
	"github.com/esxi-monitor/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserHandler struct {
	db       *gorm.DB
	notifier services.Notifier
}

func NewUserHandler(db *gorm.DB, notifier services.Notifier) *UserHandler {
	return &UserHandler{db: db, notifier: notifier}
}

func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := h.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to list users",
		})
	}
	return c.JSON(fiber.Map{"users": users})
}

func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Email and password are required",
		})
	}
	if req.Role == "" {
		req.Role = "viewer"
	}
	if req.Role != "admin" && req.Role != "viewer" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Role must be admin or viewer",
		})
	}

	var count int64
	h.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   true,
			"message": "User already exists",
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to create user",
		})
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := h.db.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to create user",
		})
	}

	h.recordAction(c, "user_created", "created "+user.Email+" ("+user.Role+")")
	if h.notifier.Enabled() {
		actorEmail, _ := c.Locals("email").(string)
		h.notifier.Notify(notify.UserCreated(user.Email, user.Role, actorEmail))
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid user ID",
		})
	}

	actorID, _ := c.Locals("user_id").(uuid.UUID)
	if id == actorID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Cannot delete your own account",
		})
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "User not found",
		})
	}

	if err := h.db.Delete(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to delete user",
		})
	}

	h.recordAction(c, "user_deleted", "deleted "+user.Email)
	if h.notifier.Enabled() {
		actorEmail, _ := c.Locals("email").(string)
		h.notifier.Notify(notify.UserDeleted(user.Email, actorEmail))
	}

	return c.JSON(fiber.Map{"message": "User deleted"})
}

func (h *UserHandler) recordAction(c *fiber.Ctx, action, details string) {
	actorID, _ := c.Locals("user_id").(uuid.UUID)
	actorEmail, _ := c.Locals("email").(string)

	entry := models.ActionLog{
		Actor:   actorEmail,
		Action:  action,
		Details: details,
	}
	if actorID != uuid.Nil {
		entry.UserID = &actorID
	}
	if err := h.db.Create(&entry).Error; err != nil {
		slog.Error("Failed to record action", "action", action, "error", err)
	}
}
