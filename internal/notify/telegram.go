// Package notify sends best-effort alerts to a Telegram chat. Delivery is
// asynchronous and failures are logged, never returned: nothing in the
// sync cycle or the HTTP path may block on, or fail because of, a
// notification.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

type Telegram struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

func NewTelegram(botToken, chatID string) *Telegram {
	return &Telegram{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  defaultAPIBase,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Enabled reports whether a bot token and chat id are configured.
func (t *Telegram) Enabled() bool {
	return t.botToken != "" && t.chatID != ""
}

// Notify dispatches a message in the background and returns immediately.
func (t *Telegram) Notify(message string) {
	go func() {
		if err := t.send(message, false); err != nil {
			slog.Warn("Telegram notification failed", "error", err)
		}
	}()
}

// NotifySilent is Notify without a client-side notification sound, used
// for routine events like successful logins.
func (t *Telegram) NotifySilent(message string) {
	go func() {
		if err := t.send(message, true); err != nil {
			slog.Warn("Telegram notification failed", "error", err)
		}
	}()
}

func (t *Telegram) send(message string, silent bool) error {
	if !t.Enabled() {
		return nil
	}

	payload := map[string]interface{}{
		"chat_id":              t.chatID,
		"text":                 message,
		"parse_mode":           "HTML",
		"disable_notification": silent,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.botToken)
	resp, err := t.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned %d", resp.StatusCode)
	}
	return nil
}
