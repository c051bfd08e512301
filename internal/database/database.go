package database

import (
	"fmt"
	"log/slog"

	"github.com/esxi-monitor/backend/internal/config"
	"github.com/esxi-monitor/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("Database connected", "host", cfg.DBHost, "db", cfg.DBName)
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Host{},
		&models.VM{},
		&models.AuditEvent{},
		&models.ActionLog{},
		&models.Metric{},
	)
}

// SeedUsers creates the configured admin and viewer accounts when they do
// not exist yet. Accounts without a configured password are skipped.
func SeedUsers(db *gorm.DB, cfg *config.Config) error {
	seeds := []struct {
		email    string
		password string
		role     string
	}{
		{cfg.AdminEmail, cfg.AdminPassword, "admin"},
		{cfg.ViewerEmail, cfg.ViewerPassword, "viewer"},
	}

	for _, seed := range seeds {
		if seed.email == "" || seed.password == "" {
			continue
		}

		var count int64
		if err := db.Model(&models.User{}).Where("email = ?", seed.email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		user := models.User{
			Email:        seed.email,
			PasswordHash: string(hash),
			Role:         seed.role,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		slog.Info("Seeded user", "email", seed.email, "role", seed.role)
	}
	return nil
}
