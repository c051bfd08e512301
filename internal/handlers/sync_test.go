package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/esxi-monitor/backend/internal/esxi"
	"github.com/esxi-monitor/backend/internal/models"
	"github.com/esxi-monitor/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type stubSource struct{ connected bool }

func (s *stubSource) Connect() error    { s.connected = true; return nil }
func (s *stubSource) Disconnect()       { s.connected = false }
func (s *stubSource) Connected() bool   { return s.connected }
func (s *stubSource) Host() string      { return "192.168.1.100" }
func (s *stubSource) FetchHostConfig() (*esxi.HostConfig, error) { return nil, nil }
func (s *stubSource) FetchVMs() ([]esxi.VMRecord, error)         { return nil, nil }
func (s *stubSource) FetchAuditEvents() ([]esxi.AuditEvent, error) {
	return nil, nil
}
func (s *stubSource) FetchMetrics() (*esxi.MetricSample, error) { return nil, nil }

type stubStore struct{}

func (stubStore) UpsertHost(models.Host) error             { return nil }
func (stubStore) UpsertVM(models.VM) error                 { return nil }
func (stubStore) AppendAuditEvent(models.AuditEvent) error { return nil }
func (stubStore) AppendActionLog(models.ActionLog) error   { return nil }
func (stubStore) AppendMetric(models.Metric) error         { return nil }

type stubNotifier struct{}

func (stubNotifier) Enabled() bool       { return false }
func (stubNotifier) Notify(string)       {}
func (stubNotifier) NotifySilent(string) {}

func newSyncTestApp() (*fiber.App, *services.SyncService) {
	svc := services.NewSyncService(&stubSource{connected: true}, stubStore{}, stubNotifier{},
		services.NewHub(), time.Hour, false)
	h := NewSyncHandler(svc)

	app := fiber.New()
	app.Get("/api/sync/status", h.Status)
	app.Post("/api/sync/now", h.TriggerNow)
	return app, svc
}

func TestSyncStatus_Shape(t *testing.T) {
	app, _ := newSyncTestApp()

	req := httptest.NewRequest("GET", "/api/sync/status", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Running    bool       `json:"running"`
		Connected  bool       `json:"connected"`
		LastSyncAt *time.Time `json:"last_sync_at"`
		Host       string     `json:"host"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Running {
		t.Error("running should be false with no cycle in flight")
	}
	if !body.Connected {
		t.Error("connected should reflect the source")
	}
	if body.LastSyncAt != nil {
		t.Error("last_sync_at should be null before the first cycle")
	}
	if body.Host != "192.168.1.100" {
		t.Errorf("host = %q", body.Host)
	}
}

func TestSyncTrigger_RespondsBeforeCompletion(t *testing.T) {
	app, _ := newSyncTestApp()

	req := httptest.NewRequest("POST", "/api/sync/now", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Message != "Sync scheduled" {
		t.Errorf("message = %q", body.Message)
	}
}
