package websocket

import (
	"github.com/raceops/rewind/internal/events"
)

// EventObserver forwards engine events to WebSocket clients.
type EventObserver struct {
	hub *Hub
}

// NewEventObserver creates an observer that broadcasts through hub.
func NewEventObserver(hub *Hub) *EventObserver {
	return &EventObserver{hub: hub}
}

// OnEvent broadcasts the event to all connected clients.
func (o *EventObserver) OnEvent(event events.Event) error {
	o.hub.BroadcastEvent(Event{
		Type: event.Type,
		Data: event.Data,
	})
	return nil
}

// GetName returns the observer name.
func (o *EventObserver) GetName() string {
	return "websocket-observer"
}

// ShouldHandle reports whether the observer wants the event type. All
// engine events are client-visible.
func (o *EventObserver) ShouldHandle(string) bool {
	return true
}

var _ events.Observer = (*EventObserver)(nil)
