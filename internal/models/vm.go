package models

import (
	"time"

	"gorm.io/datatypes"
)

// VM is a virtual machine reported by the ESXi host. The primary key is the
// id assigned by ESXi (vim-cmd Vmid), stable across sync cycles. A VM that
// disappears from the host is kept with its last known state.
type VM struct {
	ID         string         `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"not null" json:"name"`
	Status     string         `gorm:"default:'unknown'" json:"status"` // running, stopped, unknown
	CPU        int            `json:"cpu"`
	MemoryMB   int            `json:"memory_mb"`
	StorageGB  int            `json:"storage_gb"`
	IPAddress  string         `json:"ip_address"`
	GuestOS    string         `json:"guest_os"`
	HostKey    string         `gorm:"index" json:"host_key"` // owning host identity as reported by the source
	Config     datatypes.JSON `gorm:"type:jsonb" json:"config"`
	LastSyncAt *time.Time     `json:"last_sync_at"`
	LastBootAt *time.Time     `json:"last_boot_at"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
