// Package events provides the in-process publish/subscribe bus that connects
// the simulation engines. Payloads are typed structs rather than free-form
// maps so subscribers never parse event data, and handler failures are
// structurally isolated: a subscriber that errors or panics is logged and the
// publishing operation continues untouched.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Event is a typed event payload
type Event interface {
	EventType() string
}

// HandlerFunc handles a published event. A returned error is logged by the
// bus, never propagated to the publisher.
type HandlerFunc func(ctx context.Context, event Event) error

type subscription struct {
	id      string
	handler HandlerFunc
}

// Bus fans events out to subscribers. Dispatch is synchronous and in
// subscription order, which keeps engine pipelines deterministic; isolation
// of subscriber failures is the bus's job, not the caller's.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string][]subscription
	log    *slog.Logger
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string][]subscription),
		log:  slog.Default(),
	}
}

// Subscribe registers a handler for the given event type and returns a
// subscription ID for Unsubscribe.
func (b *Bus) Subscribe(eventType string, handler HandlerFunc) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := fmt.Sprintf("sub_%d", b.nextID)
	b.subs[eventType] = append(b.subs[eventType], subscription{id: id, handler: handler})
	return id
}

// Unsubscribe removes a subscription by ID
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subs {
		for i, sub := range subs {
			if sub.id == id {
				b.subs[eventType] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the event to every subscriber of its type. Subscriber
// errors and panics are logged and swallowed.
func (b *Bus) Publish(ctx context.Context, event Event) {
	if event == nil {
		return
	}

	b.mu.RLock()
	subs := make([]subscription, len(b.subs[event.EventType()]))
	copy(subs, b.subs[event.EventType()])
	b.mu.RUnlock()

	for _, sub := range subs {
		b.dispatch(ctx, sub, event)
	}
}

func (b *Bus) dispatch(ctx context.Context, sub subscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event subscriber panicked",
				"event", event.EventType(),
				"subscription", sub.id,
				"panic", r)
		}
	}()

	if err := sub.handler(ctx, event); err != nil {
		b.log.Error("event subscriber failed",
			"event", event.EventType(),
			"subscription", sub.id,
			"error", err)
	}
}
