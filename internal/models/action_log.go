package models

import (
	"time"

	"github.com/google/uuid"
)

// SystemActor marks action log entries written by background jobs rather
// than an authenticated user.
const SystemActor = "system"

type ActionLog struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // nil for background jobs
	Actor     string     `gorm:"not null" json:"actor"`
	Action    string     `gorm:"not null" json:"action"`
	Details   string     `gorm:"type:text" json:"details"`
	CreatedAt time.Time  `json:"created_at"`
}
