// Package events distributes engine events to observers. The derivation
// engine publishes progress notifications followed by exactly one terminal
// event per run; observers relay them to whatever transport the caller
// uses (WebSocket, CLI output, logs).
package events

import (
	"context"
	"log"
	"sync"
)

// Event is one domain event.
type Event struct {
	// Type is the event type (e.g. "yearly:progress").
	Type string

	// Data is the typed event payload.
	Data any

	// Context provides execution context for the event.
	Context context.Context
}

// Observer is notified of dispatched events.
type Observer interface {
	// OnEvent handles one event. Errors are logged by the dispatcher and
	// never stop delivery to other observers.
	OnEvent(event Event) error

	// GetName returns a human-readable name for logging.
	GetName() string

	// ShouldHandle filters which event types this observer receives.
	ShouldHandle(eventType string) bool
}

// Dispatcher distributes events to registered observers. Thread-safe.
type Dispatcher struct {
	observers []Observer
	mu        sync.RWMutex
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Register adds an observer; it receives all future events it accepts.
func (d *Dispatcher) Register(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, observer)
}

// Unregister removes an observer.
func (d *Dispatcher) Unregister(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, obs := range d.observers {
		if obs == observer {
			d.observers[i] = d.observers[len(d.observers)-1]
			d.observers = d.observers[:len(d.observers)-1]
			return
		}
	}
}

// Dispatch notifies observers sequentially in registration order. Progress
// events stay ordered because the engine dispatches from a single
// goroutine.
func (d *Dispatcher) Dispatch(event Event) {
	d.mu.RLock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	d.mu.RUnlock()

	for _, observer := range observers {
		if !observer.ShouldHandle(event.Type) {
			continue
		}
		if err := observer.OnEvent(event); err != nil {
			log.Printf("[events] observer %s failed to handle %s: %v",
				observer.GetName(), event.Type, err)
		}
	}
}

// ObserverCount returns the number of registered observers.
func (d *Dispatcher) ObserverCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.observers)
}

// GetTypedData extracts a typed payload from an event.
func GetTypedData[T any](event Event) (T, bool) {
	typed, ok := event.Data.(T)
	return typed, ok
}
