package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Host is the monitored ESXi hypervisor. One row per hostname; every
// successful sync cycle fully overwrites it.
type Host struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Hostname    string         `gorm:"uniqueIndex;not null" json:"hostname"`
	IP          string         `gorm:"not null" json:"ip"`
	Version     string         `json:"version"`
	Status      string         `gorm:"default:'disconnected'" json:"status"` // connected, disconnected
	CPUModel    string         `json:"cpu_model"`
	CPUCores    int            `json:"cpu_cores"`
	Memory      string         `json:"memory"` // normalized, e.g. "32.00 GB"
	UptimeHours int            `json:"uptime_hours"`
	LastSyncAt  *time.Time     `json:"last_sync_at"`
	Config      datatypes.JSON `gorm:"type:jsonb" json:"config"` // raw command output, stored verbatim
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
