package esxi

import "time"

// VM power states as stored in the database.
const (
	StatusRunning = "running"
	StatusStopped = "stopped"
	StatusUnknown = "unknown"
)

// Audit event classifications, in match-priority order.
const (
	ActionLoginSuccess = "login_success"
	ActionLoginFailed  = "login_failed"
	ActionUILogin      = "ui_login"
	ActionAuthFailure  = "auth_failure"
	ActionOther        = "other"
)

// HostConfig is the normalized hypervisor configuration scraped from the
// host. Raw keeps the verbatim command output for later inspection.
type HostConfig struct {
	Hostname    string
	Version     string
	CPUModel    string
	CPUCores    int
	Memory      string
	UptimeHours int
	Raw         map[string]string
}

// VMRecord is one virtual machine as reported by vim-cmd, with fields
// already normalized (Status is always one of the Status* constants).
type VMRecord struct {
	ID        string
	Name      string
	Status    string
	CPU       int
	MemoryMB  int
	StorageGB int
	IPAddress string
	GuestOS   string
	LastBoot  *time.Time
	Raw       string
}

// AuditEvent is one classified log line from the host's auth or hostd log.
type AuditEvent struct {
	Timestamp time.Time
	User      string
	IP        string
	Action    string
	Raw       string
	Source    string
}

// MetricSample is a point-in-time utilisation reading for the host.
type MetricSample struct {
	CPUPercent    float64
	MemoryPercent float64
	UptimeHours   int
}
