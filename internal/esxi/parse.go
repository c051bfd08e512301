package esxi

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	memoryRe     = regexp.MustCompile(`([\d.]+)\s*(Bytes|bytes|MB|GB)`)
	allVMsLineRe = regexp.MustCompile(`^(\d+)\s+(\S+)\s+(\[[^\]]+\]\s*\S+)\s+(\S+)\s+(vmx-\d+)`)
	syslogTimeRe = regexp.MustCompile(`^([A-Z][a-z]{2}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2})`)

	userForFromRe = regexp.MustCompile(`for (?:invalid user )?(\S+) from`)
	userEqRe      = regexp.MustCompile(`user=(\w+)`)
	userAtRe      = regexp.MustCompile(`User (\S+)@`)
	ipFromRe      = regexp.MustCompile(`from ([\d.]+)`)
	ipSrcRe       = regexp.MustCompile(`src=([\d.]+)`)
	ipAtRe        = regexp.MustCompile(`@([\d.]+)`)

	summaryIntRe = map[string]*regexp.Regexp{
		"numCpu":       regexp.MustCompile(`numCpu\s*=\s*(\d+)`),
		"memorySizeMB": regexp.MustCompile(`memorySizeMB\s*=\s*(\d+)`),
		"committed":    regexp.MustCompile(`committed\s*=\s*(\d+)`),
	}
	summaryStrRe = map[string]*regexp.Regexp{
		"guestFullName": regexp.MustCompile(`guestFullName\s*=\s*"([^"]*)"`),
		"ipAddress":     regexp.MustCompile(`ipAddress\s*=\s*"([^"]*)"`),
		"powerState":    regexp.MustCompile(`powerState\s*=\s*"([^"]*)"`),
		"bootTime":      regexp.MustCompile(`bootTime\s*=\s*"([^"]*)"`),
	}
	cpuModelRe = regexp.MustCompile(`cpuModel\s*=\s*"([^"]+)"`)
	cpuCoresRe = regexp.MustCompile(`CPU Cores:\s*(\d+)`)
	versionRe  = regexp.MustCompile(`VMware ESXi\s+(.+)`)
)

// NormalizePowerState maps a raw power-state string onto the stored enum.
// Only an explicit powered-on signal maps to running and only an explicit
// powered-off signal maps to stopped; everything else, including an empty
// or unparsable value, is unknown.
func NormalizePowerState(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "powered on" || s == "poweredon" || s == "running":
		return StatusRunning
	case s == "powered off" || s == "poweredoff":
		return StatusStopped
	default:
		return StatusUnknown
	}
}

// NormalizeMemory renders a raw memory report as a human-readable string.
// Byte counts become GB with two decimals; MB counts become GB with one
// decimal once they reach a full GB, otherwise they keep the MB suffix.
// Returns "" when no size can be found in the input.
func NormalizeMemory(raw string) string {
	m := memoryRe.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return ""
	}
	switch m[2] {
	case "Bytes", "bytes":
		return fmt.Sprintf("%.2f GB", value/(1024*1024*1024))
	case "MB":
		if value >= 1024 {
			return fmt.Sprintf("%.1f GB", value/1024)
		}
		return fmt.Sprintf("%d MB", int64(value))
	default: // GB already
		return fmt.Sprintf("%.1f GB", value)
	}
}

// ParseVersion extracts the product version from `vmware -v` output,
// e.g. "VMware ESXi 7.0.3 build-19193900" -> "7.0.3 build-19193900".
func ParseVersion(out string) string {
	if m := versionRe.FindStringSubmatch(strings.TrimSpace(out)); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(out)
}

// ParseCPUCores reads the core count from `esxcli hardware cpu global get`.
func ParseCPUCores(out string) int {
	if m := cpuCoresRe.FindStringSubmatch(out); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 0
}

// ParseCPUModel reads the CPU model from a `vim-cmd hostsvc/hostsummary`
// dump.
func ParseCPUModel(out string) string {
	if m := cpuModelRe.FindStringSubmatch(out); m != nil {
		return m[1]
	}
	return ""
}

// ParseUptimeHours converts `/proc/uptime` output (seconds since boot) to
// whole hours.
func ParseUptimeHours(out string) int {
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) == 0 {
		return 0
	}
	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	return int(secs / 3600)
}

// ParseAllVMs extracts (id, name, guest os hint) tuples from
// `vim-cmd vmsvc/getallvms` output. The header row and anything that does
// not look like a VM line is skipped.
func ParseAllVMs(out string) []VMRecord {
	var vms []VMRecord
	for _, line := range strings.Split(out, "\n") {
		m := allVMsLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		vms = append(vms, VMRecord{
			ID:      m[1],
			Name:    m[2],
			Status:  StatusUnknown,
			GuestOS: m[4],
		})
	}
	return vms
}

// ApplyVMSummary fills a VMRecord from a `vim-cmd vmsvc/get.summary` dump.
// Absent fields are left at their zero values rather than guessed.
func ApplyVMSummary(vm *VMRecord, out string) {
	vm.Raw = out
	if m := summaryIntRe["numCpu"].FindStringSubmatch(out); m != nil {
		vm.CPU, _ = strconv.Atoi(m[1])
	}
	if m := summaryIntRe["memorySizeMB"].FindStringSubmatch(out); m != nil {
		vm.MemoryMB, _ = strconv.Atoi(m[1])
	}
	if m := summaryIntRe["committed"].FindStringSubmatch(out); m != nil {
		bytes, _ := strconv.ParseInt(m[1], 10, 64)
		vm.StorageGB = int(bytes / (1024 * 1024 * 1024))
	}
	if m := summaryStrRe["guestFullName"].FindStringSubmatch(out); m != nil && m[1] != "" {
		vm.GuestOS = m[1]
	}
	if m := summaryStrRe["ipAddress"].FindStringSubmatch(out); m != nil {
		vm.IPAddress = m[1]
	}
	if m := summaryStrRe["powerState"].FindStringSubmatch(out); m != nil {
		vm.Status = NormalizePowerState(m[1])
	}
	if m := summaryStrRe["bootTime"].FindStringSubmatch(out); m != nil {
		if t, err := time.Parse(time.RFC3339, m[1]); err == nil {
			vm.LastBoot = &t
		}
	}
}

// ClassifyAuditLine maps a raw log line onto the audit action enum by
// substring match. First match wins; the order is fixed.
func ClassifyAuditLine(line string) string {
	l := strings.ToLower(line)
	switch {
	case strings.Contains(l, "accepted password") || strings.Contains(l, "accepted publickey"):
		return ActionLoginSuccess
	case strings.Contains(l, "failed password"):
		return ActionLoginFailed
	case strings.Contains(l, "logged in as"):
		return ActionUILogin
	case strings.Contains(l, "authentication failure"):
		return ActionAuthFailure
	default:
		return ActionOther
	}
}

// ParseAuditLine turns one raw log line into an AuditEvent. Syslog
// timestamps carry no year, so the year is taken from now; a line without
// a parsable timestamp gets now verbatim.
func ParseAuditLine(line, source string, now time.Time) (AuditEvent, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return AuditEvent{}, false
	}

	ev := AuditEvent{
		Timestamp: now,
		Action:    ClassifyAuditLine(line),
		Raw:       line,
		Source:    source,
	}

	if m := syslogTimeRe.FindStringSubmatch(line); m != nil {
		if t, err := time.Parse("Jan _2 15:04:05", m[1]); err == nil {
			ev.Timestamp = time.Date(now.Year(), t.Month(), t.Day(),
				t.Hour(), t.Minute(), t.Second(), 0, now.Location())
		}
	}

	for _, re := range []*regexp.Regexp{userForFromRe, userEqRe, userAtRe} {
		if m := re.FindStringSubmatch(line); m != nil {
			ev.User = m[1]
			break
		}
	}
	for _, re := range []*regexp.Regexp{ipFromRe, ipSrcRe, ipAtRe} {
		if m := re.FindStringSubmatch(line); m != nil {
			ev.IP = m[1]
			break
		}
	}

	return ev, true
}
