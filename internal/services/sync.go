package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/esxi-monitor/backend/internal/esxi"
	"github.com/esxi-monitor/backend/internal/models"
	"github.com/esxi-monitor/backend/internal/notify"
	"gorm.io/datatypes"
)

// Source is the remote inventory endpoint the sync service pulls from.
// Any fetch may fail or return partial data; the service treats each one
// independently.
type Source interface {
	Connect() error
	Disconnect()
	Connected() bool
	Host() string
	FetchHostConfig() (*esxi.HostConfig, error)
	FetchVMs() ([]esxi.VMRecord, error)
	FetchAuditEvents() ([]esxi.AuditEvent, error)
	FetchMetrics() (*esxi.MetricSample, error)
}

// Store is the subset of the persistence layer the sync cycle writes
// through.
type Store interface {
	UpsertHost(models.Host) error
	UpsertVM(models.VM) error
	AppendAuditEvent(models.AuditEvent) error
	AppendActionLog(models.ActionLog) error
	AppendMetric(models.Metric) error
}

// Notifier delivers best-effort chat messages. Implementations must never
// block the caller or surface errors.
type Notifier interface {
	Enabled() bool
	Notify(message string)
	NotifySilent(message string)
}

// SyncStatus is the process-local snapshot exposed over the API. It is
// rebuilt fresh on restart; nothing here is persisted.
type SyncStatus struct {
	Running    bool       `json:"running"`
	Connected  bool       `json:"connected"`
	LastSyncAt *time.Time `json:"last_sync_at"`
	Host       string     `json:"host"`
}

// SyncService runs the recurring synchronization cycle between the ESXi
// host and the database. At most one cycle executes at a time; a tick or
// manual trigger that arrives mid-cycle is dropped.
type SyncService struct {
	source       Source
	store        Store
	notifier     Notifier
	hub          *Hub
	interval     time.Duration
	retryOnStart bool

	mu         sync.Mutex
	running    bool
	lastSyncAt *time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

func NewSyncService(source Source, store Store, notifier Notifier, hub *Hub, interval time.Duration, retryOnStart bool) *SyncService {
	return &SyncService{
		source:       source,
		store:        store,
		notifier:     notifier,
		hub:          hub,
		interval:     interval,
		retryOnStart: retryOnStart,
		stop:         make(chan struct{}),
	}
}

// Start connects to the host, runs one cycle synchronously so data is
// available before the first interval elapses, then schedules the cycle
// to repeat until Stop. When the initial connect fails, scheduling is
// aborted unless retry-on-start is configured, in which case the next
// tick retries from scratch.
func (s *SyncService) Start() {
	if err := s.source.Connect(); err != nil {
		slog.Error("ESXi connection failed at startup", "host", s.source.Host(), "error", err)
		if !s.retryOnStart {
			slog.Warn("Sync not scheduled; set SYNC_RETRY_ON_START=true to keep retrying")
			return
		}
	} else {
		s.SyncOnce()
	}

	go s.loop()
	slog.Info("Sync scheduler started", "host", s.source.Host(), "interval", s.interval)
}

// Stop cancels future ticks and disconnects. Idempotent; a cycle already
// in progress is left to finish.
func (s *SyncService) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.source.Disconnect()
		slog.Info("Sync scheduler stopped", "host", s.source.Host())
	})
}

// TriggerNow schedules an immediate cycle in the background and returns
// without waiting for it. The no-overlap guard inside SyncOnce makes the
// trigger a no-op while a cycle is running.
func (s *SyncService) TriggerNow() {
	go s.SyncOnce()
}

// Status returns a copy of the current in-memory state. Never blocks on
// I/O.
func (s *SyncService) Status() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SyncStatus{
		Running:    s.running,
		Connected:  s.source.Connected(),
		LastSyncAt: s.lastSyncAt,
		Host:       s.source.Host(),
	}
}

func (s *SyncService) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SyncOnce()
		case <-s.stop:
			return
		}
	}
}

// SyncOnce runs one complete cycle: host config, VM list, metrics, audit
// events, then a summary action log entry, in that order. Returns false
// when another cycle was already running. Errors never propagate: a
// connectivity failure aborts the rest of the cycle, anything else is
// logged and skipped.
func (s *SyncService) SyncOnce() bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return false
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	slog.Info("Sync cycle started", "host", s.source.Host())
	s.hub.Publish(Event{Type: EventSyncStarted, At: time.Now()})
	if s.notifier.Enabled() {
		s.notifier.Notify(notify.SyncStarted(s.source.Host()))
	}

	if !s.source.Connected() {
		if err := s.source.Connect(); err != nil {
			s.fail(err)
			return true
		}
	}

	hostKey := s.syncHostConfig()
	vmCount := s.syncVMs(hostKey)
	s.syncMetrics(hostKey)
	eventCount := s.syncAuditEvents(hostKey)

	summary := fmt.Sprintf("%d VMs, %d audit events synced", vmCount, eventCount)
	if err := s.store.AppendActionLog(models.ActionLog{
		Actor:   models.SystemActor,
		Action:  "esxi_sync",
		Details: summary,
	}); err != nil {
		slog.Error("Failed to record sync summary", "error", err)
	}

	completedAt := time.Now()
	s.mu.Lock()
	s.lastSyncAt = &completedAt
	s.mu.Unlock()

	slog.Info("Sync cycle completed", "host", s.source.Host(), "vms", vmCount, "audit_events", eventCount)
	s.hub.Publish(Event{Type: EventSyncCompleted, Detail: summary, At: completedAt})
	if s.notifier.Enabled() {
		s.notifier.Notify(notify.SyncCompleted(s.source.Host(), vmCount, eventCount))
	}
	return true
}

// fail records a cycle-aborting connectivity error. The next scheduled
// tick retries from scratch.
func (s *SyncService) fail(err error) {
	slog.Error("Sync cycle aborted", "host", s.source.Host(), "error", err)

	if logErr := s.store.AppendActionLog(models.ActionLog{
		Actor:   models.SystemActor,
		Action:  "esxi_sync_error",
		Details: err.Error(),
	}); logErr != nil {
		slog.Error("Failed to record sync error", "error", logErr)
	}

	s.hub.Publish(Event{Type: EventSyncError, Detail: err.Error(), At: time.Now()})
	if s.notifier.Enabled() {
		s.notifier.Notify(notify.SyncError(s.source.Host(), err.Error()))
	}
}

// syncHostConfig fetches and upserts the hypervisor configuration and
// returns the identity key VM records should reference: the reported
// hostname when available, the configured address otherwise.
func (s *SyncService) syncHostConfig() string {
	hostKey := s.source.Host()

	cfg, err := s.source.FetchHostConfig()
	if err != nil {
		slog.Error("Host config fetch failed", "error", err)
		return hostKey
	}
	if cfg == nil {
		return hostKey
	}

	now := time.Now()
	host := models.Host{
		Hostname:    cfg.Hostname,
		IP:          s.source.Host(),
		Version:     cfg.Version,
		Status:      "connected",
		CPUModel:    cfg.CPUModel,
		CPUCores:    cfg.CPUCores,
		Memory:      cfg.Memory,
		UptimeHours: cfg.UptimeHours,
		LastSyncAt:  &now,
		Config:      rawJSON(cfg.Raw),
	}

	if err := s.store.UpsertHost(host); err != nil {
		slog.Error("Host config upsert failed", "hostname", cfg.Hostname, "error", err)
		return hostKey
	}

	if s.notifier.Enabled() {
		cpu := fmt.Sprintf("%d cores (%s)", cfg.CPUCores, cfg.CPUModel)
		s.notifier.Notify(notify.HostConfig(cfg.Hostname, cfg.Version, cpu, cfg.Memory, cfg.UptimeHours))
	}
	return cfg.Hostname
}

// syncVMs upserts every VM the source reports, continuing past individual
// failures, and returns the number of successful writes. VMs absent from
// the fetch are left untouched.
func (s *SyncService) syncVMs(hostKey string) int {
	vms, err := s.source.FetchVMs()
	if err != nil {
		slog.Error("VM list fetch failed", "error", err)
		return 0
	}

	saved := 0
	now := time.Now()
	for _, rec := range vms {
		vm := models.VM{
			ID:         rec.ID,
			Name:       rec.Name,
			Status:     rec.Status,
			CPU:        rec.CPU,
			MemoryMB:   rec.MemoryMB,
			StorageGB:  rec.StorageGB,
			IPAddress:  rec.IPAddress,
			GuestOS:    rec.GuestOS,
			HostKey:    hostKey,
			Config:     rawJSON(map[string]string{"summary": rec.Raw}),
			LastSyncAt: &now,
			LastBootAt: rec.LastBoot,
		}

		if err := s.store.UpsertVM(vm); err != nil {
			slog.Error("VM upsert failed", "vm", rec.Name, "error", err)
			continue
		}
		saved++

		if s.notifier.Enabled() && rec.Status == esxi.StatusRunning {
			s.notifier.Notify(notify.VMConfig(rec.Name, rec.Status, rec.GuestOS, rec.IPAddress,
				rec.CPU, rec.MemoryMB, rec.StorageGB))
		}
	}

	slog.Info("VMs synced", "saved", saved, "reported", len(vms))
	return saved
}

func (s *SyncService) syncMetrics(hostKey string) {
	sample, err := s.source.FetchMetrics()
	if err != nil {
		slog.Debug("Host metrics fetch failed", "error", err)
		return
	}
	if sample == nil {
		return
	}

	if err := s.store.AppendMetric(models.Metric{
		HostKey:       hostKey,
		CPUPercent:    sample.CPUPercent,
		MemoryPercent: sample.MemoryPercent,
		UptimeHours:   sample.UptimeHours,
		CollectedAt:   time.Now(),
	}); err != nil {
		slog.Error("Metric append failed", "error", err)
	}
}

// syncAuditEvents appends every fetched audit event, continuing past
// individual failures, and returns the number of successful appends.
// Successful logins produce a silent chat notification.
func (s *SyncService) syncAuditEvents(hostKey string) int {
	events, err := s.source.FetchAuditEvents()
	if err != nil {
		slog.Error("Audit log fetch failed", "error", err)
		return 0
	}

	saved := 0
	for _, ev := range events {
		if err := s.store.AppendAuditEvent(models.AuditEvent{
			Timestamp: ev.Timestamp,
			Username:  ev.User,
			IP:        ev.IP,
			Action:    ev.Action,
			Details:   ev.Raw,
			Source:    ev.Source,
		}); err != nil {
			slog.Error("Audit event append failed", "error", err)
			continue
		}
		saved++

		if s.notifier.Enabled() && ev.Action == esxi.ActionLoginSuccess {
			s.notifier.NotifySilent(notify.HostLogin(hostKey, ev.User, ev.IP, ev.Timestamp))
		}
	}

	slog.Info("Audit events synced", "saved", saved, "reported", len(events))
	return saved
}

func rawJSON(m map[string]string) datatypes.JSON {
	b, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
