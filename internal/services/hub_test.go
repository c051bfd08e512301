package services

import (
	"testing"
	"time"
)

func TestHub_FanOut(t *testing.T) {
	hub := NewHub()
	a, cancelA := hub.Subscribe()
	b, cancelB := hub.Subscribe()
	defer cancelA()
	defer cancelB()

	hub.Publish(Event{Type: EventSyncStarted, At: time.Now()})

	for _, ch := range []<-chan Event{a, b} {
		select {
		case ev := <-ch:
			if ev.Type != EventSyncStarted {
				t.Errorf("got event %q, want %q", ev.Type, EventSyncStarted)
			}
		default:
			t.Error("subscriber did not receive the event")
		}
	}
}

func TestHub_FullBufferDoesNotBlockPublish(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe()
	defer cancel()

	// Fill the buffer and then some; Publish must never stall.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(Event{Type: EventSyncCompleted, At: time.Now()})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}

	// The subscriber still got a full buffer of events.
	if len(ch) != cap(ch) {
		t.Errorf("buffered %d events, want %d", len(ch), cap(ch))
	}
}

func TestHub_CancelRemovesSubscriber(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe()

	if hub.SubscriberCount() != 1 {
		t.Fatalf("count = %d, want 1", hub.SubscriberCount())
	}

	cancel()
	cancel() // idempotent

	if hub.SubscriberCount() != 0 {
		t.Errorf("count after cancel = %d, want 0", hub.SubscriberCount())
	}
	if _, open := <-ch; open {
		t.Error("channel should be closed after cancel")
	}

	// Publishing after cancel must not panic.
	hub.Publish(Event{Type: EventSyncError, At: time.Now()})
}
