package esxi

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
)

const dialTimeout = 10 * time.Second

// Client talks to a single ESXi host over SSH. ESXi's busybox shell cannot
// serve concurrent sessions reliably, so callers are expected to issue
// commands sequentially; the sync service already does.
type Client struct {
	host     string
	user     string
	password string
	port     int

	mu     sync.Mutex
	client *ssh.Client
}

func NewClient(host, user, password string, port int) *Client {
	return &Client{
		host:     host,
		user:     user,
		password: password,
		port:     port,
	}
}

// Host returns the configured host address (the identity key used for
// records when the hostname cannot be fetched).
func (c *Client) Host() string { return c.host }

func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return nil
	}

	cfg := &ssh.ClientConfig{
		User:            c.user,
		Auth:            []ssh.AuthMethod{ssh.Password(c.password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         dialTimeout,
	}

	addr := fmt.Sprintf("%s:%d", c.host, c.port)
	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	c.client = client
	slog.Info("ESXi SSH connection established", "host", addr, "user", c.user)
	return nil
}

// Disconnect closes the SSH connection. Safe to call repeatedly or before
// Connect.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		c.client.Close()
		c.client = nil
		slog.Info("ESXi SSH connection closed", "host", c.host)
	}
}

func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client != nil
}

func (c *Client) run(cmd string) (string, error) {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()

	if client == nil {
		return "", fmt.Errorf("not connected to %s", c.host)
	}

	session, err := client.NewSession()
	if err != nil {
		// A failed session usually means the transport died; drop it so
		// the next cycle reconnects.
		c.mu.Lock()
		if c.client == client {
			c.client.Close()
			c.client = nil
		}
		c.mu.Unlock()
		return "", fmt.Errorf("session failed: %w", err)
	}
	defer session.Close()

	out, err := session.CombinedOutput(cmd)
	if err != nil {
		return "", fmt.Errorf("command %q failed: %w", cmd, err)
	}
	return string(out), nil
}

// FetchHostConfig scrapes the hypervisor configuration. A nil result with
// a nil error means the host answered but returned nothing usable.
func (c *Client) FetchHostConfig() (*HostConfig, error) {
	raw := make(map[string]string)

	hostname, err := c.run("hostname")
	if err != nil {
		return nil, err
	}
	raw["hostname"] = hostname

	cfg := &HostConfig{
		Hostname: strings.TrimSpace(hostname),
		Raw:      raw,
	}
	if cfg.Hostname == "" {
		return nil, nil
	}

	// The remaining probes are independent; a missing field is left at
	// its zero value rather than failing the whole fetch.
	if out, err := c.run("vmware -v"); err == nil {
		raw["version"] = out
		cfg.Version = ParseVersion(out)
	}
	if out, err := c.run("esxcli hardware cpu global get"); err == nil {
		raw["cpu"] = out
		cfg.CPUCores = ParseCPUCores(out)
	}
	if out, err := c.run("vim-cmd hostsvc/hostsummary"); err == nil {
		raw["hostsummary"] = out
		cfg.CPUModel = ParseCPUModel(out)
	}
	if out, err := c.run("esxcli hardware memory get"); err == nil {
		raw["memory"] = out
		cfg.Memory = NormalizeMemory(out)
	}
	if out, err := c.run("cat /proc/uptime"); err == nil {
		raw["uptime"] = out
		cfg.UptimeHours = ParseUptimeHours(out)
	}

	return cfg, nil
}

// FetchVMs lists the registered virtual machines with their power state
// and summary config. Always returns a (possibly empty) slice.
func (c *Client) FetchVMs() ([]VMRecord, error) {
	out, err := c.run("vim-cmd vmsvc/getallvms")
	if err != nil {
		return nil, err
	}

	vms := ParseAllVMs(out)
	for i := range vms {
		if state, err := c.run("vim-cmd vmsvc/power.getstate " + vms[i].ID); err == nil {
			vms[i].Status = NormalizePowerState(lastLine(state))
		}
		if summary, err := c.run("vim-cmd vmsvc/get.summary " + vms[i].ID); err == nil {
			ApplyVMSummary(&vms[i], summary)
		}
	}
	return vms, nil
}

// FetchAuditEvents tails the host's auth and hostd logs and classifies
// each line. Always returns a (possibly empty) slice.
func (c *Client) FetchAuditEvents() ([]AuditEvent, error) {
	var events []AuditEvent
	now := time.Now()

	sources := []struct {
		cmd    string
		source string
	}{
		{"tail -n 50 /var/log/auth.log", "auth.log"},
		{"grep 'logged in as' /var/log/hostd.log | tail -n 50", "hostd.log"},
	}

	var lastErr error
	for _, src := range sources {
		out, err := c.run(src.cmd)
		if err != nil {
			lastErr = err
			continue
		}
		for _, line := range strings.Split(out, "\n") {
			if ev, ok := ParseAuditLine(line, src.source, now); ok {
				events = append(events, ev)
			}
		}
	}

	if len(events) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return events, nil
}

// FetchMetrics samples current host utilisation.
func (c *Client) FetchMetrics() (*MetricSample, error) {
	sample := &MetricSample{}

	out, err := c.run("vsish -e get /memory/comprehensive")
	if err != nil {
		return nil, err
	}
	sample.MemoryPercent = parseMemoryPercent(out)

	if out, err := c.run("cat /proc/uptime"); err == nil {
		sample.UptimeHours = ParseUptimeHours(out)
	}
	if out, err := c.run("vsish -e get /sched/groups/0/stats/cpuStatsDir/cpuStats | grep -m1 usedsec"); err == nil {
		sample.CPUPercent = parseFirstFloat(out)
	}

	return sample, nil
}

func lastLine(out string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}

func parseFirstFloat(out string) float64 {
	for _, f := range strings.FieldsFunc(out, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	}) {
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			return v
		}
	}
	return 0
}

func parseMemoryPercent(out string) float64 {
	var total, free float64
	for _, line := range strings.Split(out, "\n") {
		l := strings.ToLower(line)
		switch {
		case strings.Contains(l, "physical memory estimate"):
			total = parseFirstFloat(line)
		case strings.Contains(l, "free memory"):
			free = parseFirstFloat(line)
		}
	}
	if total <= 0 || free < 0 || free > total {
		return 0
	}
	return (total - free) / total * 100
}
