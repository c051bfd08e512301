package esxi

import (
	"testing"
	"time"
)

// ---- power state ------------------------------------------------------------

func TestNormalizePowerState(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Powered on", StatusRunning},
		{"poweredOn", StatusRunning},
		{"running", StatusRunning},
		{"Powered off", StatusStopped},
		{"poweredOff", StatusStopped},
		{"Suspended", StatusUnknown},
		{"", StatusUnknown},
		{"garbage output", StatusUnknown},
	}
	for _, tt := range tests {
		if got := NormalizePowerState(tt.in); got != tt.want {
			t.Errorf("NormalizePowerState(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// ---- memory -----------------------------------------------------------------

func TestNormalizeMemory_MBAboveOneGB(t *testing.T) {
	if got := NormalizeMemory("Physical Memory: 32768 MB"); got != "32.0 GB" {
		t.Errorf("got %q, want %q", got, "32.0 GB")
	}
}

func TestNormalizeMemory_MBBelowOneGB(t *testing.T) {
	if got := NormalizeMemory("Physical Memory: 512 MB"); got != "512 MB" {
		t.Errorf("got %q, want %q", got, "512 MB")
	}
}

func TestNormalizeMemory_RawBytes(t *testing.T) {
	if got := NormalizeMemory("   Physical Memory: 34359738368 Bytes"); got != "32.00 GB" {
		t.Errorf("got %q, want %q", got, "32.00 GB")
	}
}

func TestNormalizeMemory_Unparsable(t *testing.T) {
	if got := NormalizeMemory("no numbers here"); got != "" {
		t.Errorf("got %q, want empty string", got)
	}
}

// ---- audit lines ------------------------------------------------------------

func TestParseAuditLine_AcceptedPassword(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	line := "Jan 5 10:00:01 host sshd: Accepted password for root from 10.0.0.5"

	ev, ok := ParseAuditLine(line, "auth.log", now)
	if !ok {
		t.Fatal("expected line to parse")
	}
	if ev.User != "root" {
		t.Errorf("user = %q, want %q", ev.User, "root")
	}
	if ev.IP != "10.0.0.5" {
		t.Errorf("ip = %q, want %q", ev.IP, "10.0.0.5")
	}
	if ev.Action != ActionLoginSuccess {
		t.Errorf("action = %q, want %q", ev.Action, ActionLoginSuccess)
	}
	want := time.Date(2026, 1, 5, 10, 0, 1, 0, time.UTC)
	if !ev.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", ev.Timestamp, want)
	}
}

func TestParseAuditLine_NoTimestampFallsBackToNow(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	ev, ok := ParseAuditLine("something without a syslog prefix", "auth.log", now)
	if !ok {
		t.Fatal("expected line to parse")
	}
	if !ev.Timestamp.Equal(now) {
		t.Errorf("timestamp = %v, want ingest time %v", ev.Timestamp, now)
	}
	if ev.Action != ActionOther {
		t.Errorf("action = %q, want %q", ev.Action, ActionOther)
	}
}

func TestParseAuditLine_BlankLineSkipped(t *testing.T) {
	if _, ok := ParseAuditLine("   ", "auth.log", time.Now()); ok {
		t.Error("blank line should not produce an event")
	}
}

func TestClassifyAuditLine_PriorityOrder(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"sshd: Accepted password for admin from 10.1.1.1", ActionLoginSuccess},
		{"sshd: Accepted publickey for admin from 10.1.1.1", ActionLoginSuccess},
		{"sshd: Failed password for invalid user test from 10.1.1.2", ActionLoginFailed},
		{"hostd: User dcui@127.0.0.1 logged in as VMware Host Client", ActionUILogin},
		{"pam_unix: authentication failure; user=root src=10.1.1.3", ActionAuthFailure},
		{"kernel: link up on vmnic0", ActionOther},
	}
	for _, tt := range tests {
		if got := ClassifyAuditLine(tt.line); got != tt.want {
			t.Errorf("ClassifyAuditLine(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestParseAuditLine_PamUserAndSrc(t *testing.T) {
	ev, ok := ParseAuditLine("Feb 12 08:15:00 esx pam_unix: authentication failure; user=root src=10.9.9.9", "auth.log", time.Now())
	if !ok {
		t.Fatal("expected line to parse")
	}
	if ev.User != "root" {
		t.Errorf("user = %q, want root", ev.User)
	}
	if ev.IP != "10.9.9.9" {
		t.Errorf("ip = %q, want 10.9.9.9", ev.IP)
	}
}

// ---- vim-cmd output ---------------------------------------------------------

const allVMsOutput = `Vmid        Name                 File                       Guest OS       Version   Annotation
1      web01      [datastore1] web01/web01.vmx           ubuntu64Guest     vmx-14
8      db01       [datastore1] db01/db01.vmx             centos64Guest     vmx-13    primary db
totally broken line
`

func TestParseAllVMs(t *testing.T) {
	vms := ParseAllVMs(allVMsOutput)
	if len(vms) != 2 {
		t.Fatalf("got %d VMs, want 2", len(vms))
	}
	if vms[0].ID != "1" || vms[0].Name != "web01" || vms[0].GuestOS != "ubuntu64Guest" {
		t.Errorf("unexpected first VM: %+v", vms[0])
	}
	if vms[1].ID != "8" || vms[1].Name != "db01" {
		t.Errorf("unexpected second VM: %+v", vms[1])
	}
	if vms[0].Status != StatusUnknown {
		t.Errorf("status before power probe = %q, want unknown", vms[0].Status)
	}
}

const vmSummaryOutput = `(vim.vm.Summary) {
   config = (vim.vm.Summary.ConfigSummary) {
      name = "web01",
      guestFullName = "Ubuntu Linux (64-bit)",
      numCpu = 2,
      memorySizeMB = 2048,
   },
   guest = (vim.vm.Summary.GuestSummary) {
      ipAddress = "10.0.0.12",
   },
   runtime = (vim.vm.RuntimeInfo) {
      powerState = "poweredOn",
      bootTime = "2026-01-05T09:00:00Z",
   },
   storage = (vim.vm.Summary.StorageSummary) {
      committed = 53687091200,
   },
}`

func TestApplyVMSummary(t *testing.T) {
	vm := VMRecord{ID: "1", Name: "web01", Status: StatusUnknown}
	ApplyVMSummary(&vm, vmSummaryOutput)

	if vm.CPU != 2 {
		t.Errorf("cpu = %d, want 2", vm.CPU)
	}
	if vm.MemoryMB != 2048 {
		t.Errorf("memory = %d, want 2048", vm.MemoryMB)
	}
	if vm.StorageGB != 50 {
		t.Errorf("storage = %d, want 50", vm.StorageGB)
	}
	if vm.IPAddress != "10.0.0.12" {
		t.Errorf("ip = %q, want 10.0.0.12", vm.IPAddress)
	}
	if vm.GuestOS != "Ubuntu Linux (64-bit)" {
		t.Errorf("guest os = %q", vm.GuestOS)
	}
	if vm.Status != StatusRunning {
		t.Errorf("status = %q, want running", vm.Status)
	}
	if vm.LastBoot == nil || vm.LastBoot.Year() != 2026 {
		t.Errorf("last boot = %v, want 2026 boot time", vm.LastBoot)
	}
}

func TestApplyVMSummary_AbsentFieldsStayZero(t *testing.T) {
	vm := VMRecord{ID: "3", Name: "bare", Status: StatusUnknown, GuestOS: "otherGuest"}
	ApplyVMSummary(&vm, "(vim.vm.Summary) {\n}")

	if vm.CPU != 0 || vm.MemoryMB != 0 || vm.StorageGB != 0 {
		t.Errorf("zero fields changed: %+v", vm)
	}
	if vm.Status != StatusUnknown {
		t.Errorf("status = %q, want unknown", vm.Status)
	}
	if vm.GuestOS != "otherGuest" {
		t.Errorf("guest os overwritten: %q", vm.GuestOS)
	}
}

// ---- host probes ------------------------------------------------------------

func TestParseVersion(t *testing.T) {
	got := ParseVersion("VMware ESXi 7.0.3 build-19193900\n")
	if got != "7.0.3 build-19193900" {
		t.Errorf("got %q", got)
	}
}

func TestParseCPUCores(t *testing.T) {
	out := "   CPU Packages: 1\n   CPU Cores: 8\n   CPU Threads: 16\n"
	if got := ParseCPUCores(out); got != 8 {
		t.Errorf("got %d, want 8", got)
	}
}

func TestParseCPUModel(t *testing.T) {
	out := `   hardware = (vim.host.Summary.HardwareSummary) {
      cpuModel = "Intel(R) Xeon(R) CPU E5-2680 v4 @ 2.40GHz",
   }`
	want := "Intel(R) Xeon(R) CPU E5-2680 v4 @ 2.40GHz"
	if got := ParseCPUModel(out); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseUptimeHours(t *testing.T) {
	if got := ParseUptimeHours("90000.25 123.45\n"); got != 25 {
		t.Errorf("got %d, want 25", got)
	}
	if got := ParseUptimeHours("garbage"); got != 0 {
		t.Errorf("got %d, want 0 on parse failure", got)
	}
}
