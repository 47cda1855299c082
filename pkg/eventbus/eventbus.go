// Package eventbus defines the contract for publishing and subscribing to
// domain events. Implementations live under infra/eventbus.
package eventbus

import "context"

// Event is implemented by all domain events.
type Event interface {
	Type() string
}

// HandlerFunc handles a single dispatched event.
type HandlerFunc func(ctx context.Context, event Event) error

// Bus dispatches events to handlers registered for their type.
type Bus interface {
	// Register adds a handler for a specific event type.
	Register(eventType string, handler HandlerFunc)
	// Emit dispatches the event to all handlers registered for its type.
	Emit(ctx context.Context, event Event) error
}
