package notify

import (
	"fmt"
	"time"
)

// Message templates mirror what the dashboard users see in the Telegram
// chat. All values are interpolated into HTML, so callers pass plain
// strings only.

func SyncStarted(host string) string {
	return fmt.Sprintf("🔵 <b>ESXi sync started</b>\nHost: %s\nTime: %s",
		host, now())
}

func SyncCompleted(host string, vmCount, eventCount int) string {
	return fmt.Sprintf("🟢 <b>ESXi sync completed</b>\nHost: %s\nVMs: %d\nAudit events: %d\nTime: %s",
		host, vmCount, eventCount, now())
}

func SyncError(host, errMsg string) string {
	return fmt.Sprintf("🔴 <b>ESXi sync error</b>\nHost: %s\nError: %s\nTime: %s",
		host, errMsg, now())
}

func HostConfig(hostname, version, cpu, memory string, uptimeHours int) string {
	return fmt.Sprintf("🖥️ <b>ESXi configuration received</b>\nHost: <code>%s</code>\nVersion: %s\nCPU: %s\nMemory: %s\nUptime: %d h",
		hostname, version, cpu, memory, uptimeHours)
}

func VMConfig(name, status, os, ip string, cpu, ramMB, storageGB int) string {
	if ip == "" {
		ip = "N/A"
	}
	return fmt.Sprintf("💻 <b>VM configuration received</b>\nVM: <code>%s</code>\nCPU: %d cores\nRAM: %d MB\nStorage: %d GB\nOS: %s\nStatus: %s\nIP: %s",
		name, cpu, ramMB, storageGB, os, status, ip)
}

func HostLogin(host, user, ip string, at time.Time) string {
	return fmt.Sprintf("🔑 <b>ESXi login</b>\nHost: %s\nUser: %s\nIP: %s\nTime: %s",
		host, user, ip, at.Format("2006-01-02 15:04:05"))
}

func UserCreated(email, role, createdBy string) string {
	return fmt.Sprintf("⚙️ <b>User created</b>\nEmail: %s\nRole: %s\nBy: %s", email, role, createdBy)
}

func UserDeleted(email, deletedBy string) string {
	return fmt.Sprintf("⚙️ <b>User deleted</b>\nEmail: %s\nBy: %s", email, deletedBy)
}

func now() string {
	return time.Now().Format("2006-01-02 15:04:05")
}
