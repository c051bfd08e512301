package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DB_HOST", "DB_NAME", "ESXI_HOST", "ESXI_USER",
		"ESXI_SSH_PORT", "SYNC_INTERVAL", "SYNC_RETRY_ON_START",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "5000" {
		t.Errorf("Port = %q, want 5000", cfg.Port)
	}
	if cfg.DBHost != "localhost" || cfg.DBName != "vm_db" {
		t.Errorf("unexpected DB defaults: %q %q", cfg.DBHost, cfg.DBName)
	}
	if cfg.ESXiHost != "192.168.1.100" || cfg.ESXiUser != "root" {
		t.Errorf("unexpected ESXi defaults: %q %q", cfg.ESXiHost, cfg.ESXiUser)
	}
	if cfg.ESXiSSHPort != 22 {
		t.Errorf("ESXiSSHPort = %d, want 22", cfg.ESXiSSHPort)
	}
	if cfg.SyncInterval != 120 {
		t.Errorf("SyncInterval = %d, want 120", cfg.SyncInterval)
	}
	if !cfg.SyncRetryOnStart {
		t.Error("SyncRetryOnStart should default to true")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ESXI_HOST", "10.0.0.1")
	t.Setenv("ESXI_SSH_PORT", "2222")
	t.Setenv("SYNC_INTERVAL", "30")
	t.Setenv("SYNC_RETRY_ON_START", "false")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.ESXiHost != "10.0.0.1" {
		t.Errorf("ESXiHost = %q", cfg.ESXiHost)
	}
	if cfg.ESXiSSHPort != 2222 {
		t.Errorf("ESXiSSHPort = %d", cfg.ESXiSSHPort)
	}
	if cfg.SyncInterval != 30 {
		t.Errorf("SyncInterval = %d", cfg.SyncInterval)
	}
	if cfg.SyncRetryOnStart {
		t.Error("SyncRetryOnStart should be false")
	}
	if cfg.JWTSecret != "s3cret" {
		t.Errorf("JWTSecret = %q", cfg.JWTSecret)
	}
}

func TestLoad_BadNumbersFallBackToZero(t *testing.T) {
	t.Setenv("SYNC_INTERVAL", "not-a-number")

	cfg := Load()
	if cfg.SyncInterval != 0 {
		t.Errorf("SyncInterval = %d, want 0 for unparsable input", cfg.SyncInterval)
	}
}
