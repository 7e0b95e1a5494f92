package lockbank

import (
	"context"
	"sync"
)

// Event is emitted by an extension when an operation completes. Events are
// observable only for operations that were committed.
type Event interface {
	// EventType returns a short, unique name of the event kind.
	EventType() string
}

// EventManager collects events emitted while processing a single operation.
type EventManager struct {
	mu     sync.Mutex
	events []Event
}

// NewEventManager returns an empty collector.
func NewEventManager() *EventManager {
	return &EventManager{}
}

// Emit appends an event.
func (em *EventManager) Emit(e Event) {
	em.mu.Lock()
	em.events = append(em.events, e)
	em.mu.Unlock()
}

// Events returns all events emitted so far, in emission order.
func (em *EventManager) Events() []Event {
	em.mu.Lock()
	defer em.mu.Unlock()
	res := make([]Event, len(em.events))
	copy(res, em.events)
	return res
}

// WithEventManager attaches a collector to the context. Events emitted by
// extensions using this context are stored in it.
func WithEventManager(ctx Context, em *EventManager) Context {
	return context.WithValue(ctx, contextKeyEvents, em)
}

// GetEventManager returns the collector attached to the context.
func GetEventManager(ctx Context) (*EventManager, bool) {
	em, ok := ctx.Value(contextKeyEvents).(*EventManager)
	return em, ok
}

// EmitEvent stores the event in the context collector. When no collector is
// present the event is only logged.
func EmitEvent(ctx Context, e Event) {
	GetLogger(ctx).Debug("event", "type", e.EventType())
	if em, ok := GetEventManager(ctx); ok {
		em.Emit(e)
	}
}
