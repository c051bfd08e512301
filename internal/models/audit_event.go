package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditEvent is an append-only record of a log line scraped from the ESXi
// host. Ordering by Timestamp is best-effort: syslog lines carry no year.
type AuditEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	Username  string    `json:"username"`
	IP        string    `json:"ip"`
	Action    string    `gorm:"not null" json:"action"` // login_success, login_failed, ui_login, auth_failure, other
	Details   string    `gorm:"type:text" json:"details"`
	Source    string    `gorm:"default:'esxi'" json:"source"`
	CreatedAt time.Time `json:"created_at"`
}
