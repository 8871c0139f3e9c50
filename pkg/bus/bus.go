// Package bus provides the decoupled publish/subscribe channel used for
// cross-component signaling inside scenestack.
package bus

import (
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Handler consumes an emitted event payload.
type Handler func(payload any)

// Subscription identifies one registered handler so it can be removed
// without relying on func comparability.
type Subscription struct {
	Event string
	id    uuid.UUID
}

type entry struct {
	id uuid.UUID
	fn Handler
}

// Bus is a synchronous publish/subscribe dispatcher. Emission dispatches to
// a snapshot of the handler list, so handlers may subscribe or unsubscribe
// during dispatch without affecting the current emission. A panicking
// handler is recovered and logged; its siblings still run.
type Bus struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	handlers map[string][]entry
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the structured logger used to report handler panics.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		b.logger = logger
	}
}

// New creates an empty bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		handlers: make(map[string][]entry),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// On registers a handler for the named event.
func (b *Bus) On(event string, fn Handler) Subscription {
	sub := Subscription{Event: event, id: uuid.New()}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], entry{id: sub.id, fn: fn})
	return sub
}

// Off removes a previously registered handler. Unknown subscriptions are
// ignored.
func (b *Bus) Off(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries := b.handlers[sub.Event]
	for i, e := range entries {
		if e.id == sub.id {
			b.handlers[sub.Event] = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}
	if len(b.handlers[sub.Event]) == 0 {
		delete(b.handlers, sub.Event)
	}
}

// Emit dispatches the payload to every handler registered for the event at
// the moment of the call.
func (b *Bus) Emit(event string, payload any) {
	b.mu.RLock()
	entries := b.handlers[event]
	snapshot := make([]entry, len(entries))
	copy(snapshot, entries)
	b.mu.RUnlock()

	for _, e := range snapshot {
		b.dispatch(event, e, payload)
	}
}

// HandlerCount returns how many handlers are registered for the event.
func (b *Bus) HandlerCount(event string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[event])
}

func (b *Bus) dispatch(event string, e entry, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked", "event", event, "panic", r)
		}
	}()
	e.fn(payload)
}
