package config

import (
	"os"
	"strconv"
)

type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Auth
	JWTSecret string

	// Seeded accounts (created on first boot if missing)
	AdminEmail     string
	AdminPassword  string
	ViewerEmail    string
	ViewerPassword string

	// ESXi host
	ESXiHost     string
	ESXiUser     string
	ESXiPassword string
	ESXiSSHPort  int

	// Sync
	SyncInterval     int // seconds
	SyncRetryOnStart bool

	// Telegram
	TelegramBotToken string
	TelegramChatID   string
}

func Load() *Config {
	sshPort, _ := strconv.Atoi(getEnv("ESXI_SSH_PORT", "22"))
	syncInterval, _ := strconv.Atoi(getEnv("SYNC_INTERVAL", "120"))
	retryOnStart, _ := strconv.ParseBool(getEnv("SYNC_RETRY_ON_START", "true"))

	return &Config{
		Port:             getEnv("PORT", "5000"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", ""),
		DBName:           getEnv("DB_NAME", "vm_db"),
		DBSSLMode:        getEnv("DB_SSLMODE", "disable"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		AdminEmail:       getEnv("ADMIN_EMAIL", "admin@vm.local"),
		AdminPassword:    getEnv("ADMIN_PASSWORD", ""),
		ViewerEmail:      getEnv("VIEWER_EMAIL", "viewer@vm.local"),
		ViewerPassword:   getEnv("VIEWER_PASSWORD", ""),
		ESXiHost:         getEnv("ESXI_HOST", "192.168.1.100"),
		ESXiUser:         getEnv("ESXI_USER", "root"),
		ESXiPassword:     getEnv("ESXI_PASSWORD", ""),
		ESXiSSHPort:      sshPort,
		SyncInterval:     syncInterval,
		SyncRetryOnStart: retryOnStart,
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
