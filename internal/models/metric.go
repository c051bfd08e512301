package models

import (
	"time"

	"github.com/google/uuid"
)

// Metric is a host-level utilisation sample collected once per sync cycle.
type Metric struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	HostKey       string    `gorm:"index" json:"host_key"`
	CPUPercent    float64   `json:"cpu_percent"`
	MemoryPercent float64   `json:"memory_percent"`
	UptimeHours   int       `json:"uptime_hours"`
	CollectedAt   time.Time `gorm:"not null;index" json:"collected_at"`
}
