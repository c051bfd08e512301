package handlers

import (
	"github.com/esxi-monitor/backend/internal/services"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type EventsHandler struct {
	hub *services.Hub
}

func NewEventsHandler(hub *services.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// UpgradeCheck is middleware that checks if the request is a websocket upgrade
func (h *EventsHandler) UpgradeCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// HandleEvents streams sync lifecycle events to the dashboard until the
// client disconnects.
func (h *EventsHandler) HandleEvents() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		events, cancel := h.hub.Subscribe()
		defer cancel()

		// Reader goroutine: its only job is to notice the client going
		// away, since we never expect inbound frames.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := c.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if err := c.WriteJSON(ev); err != nil {
					return
				}
			case <-closed:
				return
			}
		}
	})
}
