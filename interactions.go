package flow

import "sync"

// EventKind names a node interaction affordance.
type EventKind string

const (
	EventClick       EventKind = "click"
	EventDoubleClick EventKind = "doubleclick"
	EventContextMenu EventKind = "contextmenu"
	EventMouseEnter  EventKind = "mouseenter"
	EventMouseLeave  EventKind = "mouseleave"
	EventMouseMove   EventKind = "mousemove"
)

// NodeEvent is one interaction on a rendered node, emitted by the visual
// component through the handlers baked into its props.
type NodeEvent struct {
	Kind EventKind
	ID   string

	// X, Y is the pointer position in canvas space, when the host has one.
	X, Y float64
}

// Events is a simple event bus for node interactions. It is generic over the
// event type T.
type Events[T any] struct {
	mu        sync.RWMutex
	listeners []func(T)
}

// NewEvents creates a new event bus.
func NewEvents[T any]() *Events[T] {
	return &Events[T]{}
}

// Emit sends an event to all listeners in subscription order.
func (e *Events[T]) Emit(event T) {
	e.mu.RLock()
	listeners := e.listeners
	e.mu.RUnlock()

	for _, fn := range listeners {
		fn(event)
	}
}

// Subscribe adds a listener for events.
func (e *Events[T]) Subscribe(fn func(T)) {
	e.mu.Lock()
	e.listeners = append(e.listeners, fn)
	e.mu.Unlock()
}
