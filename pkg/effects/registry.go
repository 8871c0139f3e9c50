// Package effects manages named screen-transition effects: a pair of timed
// visual phases run around a state change, independent of the scene's own
// lifecycle hooks.
package effects

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Effect is one registered transition. The engine awaits each phase; the
// phase decides how (and whether) to spend the duration.
type Effect struct {
	// OnExit animates away from the previous scene toward the target.
	OnExit func(ctx context.Context, from, to string, duration time.Duration)

	// OnEnter animates the target in, after the stack has changed.
	OnEnter func(ctx context.Context, to, from string, duration time.Duration)
}

// Registry holds effects by name. Re-registering a name overwrites the
// previous effect with a warning.
type Registry struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	effects map[string]Effect
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty effect registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		effects: make(map[string]Effect),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds an effect under the given name.
func (r *Registry) Register(name string, effect Effect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.effects[name]; exists {
		r.logger.Warn("transition effect overwritten", "effect", name)
	}
	r.effects[name] = effect
}

// Get returns the named effect and whether it exists.
func (r *Registry) Get(name string) (Effect, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.effects[name]
	return e, ok
}

// Names returns the registered effect names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.effects))
	for name := range r.effects {
		names = append(names, name)
	}
	return names
}
