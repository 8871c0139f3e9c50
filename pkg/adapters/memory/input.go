package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/scenestack/scenestack/pkg/domain"
)

// Input is a programmatic input source. Hosts feed key presses and input
// events in; subscribers receive them synchronously. It implements
// ports.InputSource.
type Input struct {
	mu      sync.RWMutex
	keyFns  map[uuid.UUID]func(key string)
	evFns   map[string]map[uuid.UUID]domain.InputHandler
}

// NewInput creates an empty input source.
func NewInput() *Input {
	return &Input{
		keyFns: make(map[uuid.UUID]func(key string)),
		evFns:  make(map[string]map[uuid.UUID]domain.InputHandler),
	}
}

func (in *Input) SubscribeKeys(fn func(key string)) func() {
	id := uuid.New()
	in.mu.Lock()
	in.keyFns[id] = fn
	in.mu.Unlock()

	return func() {
		in.mu.Lock()
		delete(in.keyFns, id)
		in.mu.Unlock()
	}
}

func (in *Input) Subscribe(eventType string, fn domain.InputHandler) func() {
	id := uuid.New()
	in.mu.Lock()
	if in.evFns[eventType] == nil {
		in.evFns[eventType] = make(map[uuid.UUID]domain.InputHandler)
	}
	in.evFns[eventType][id] = fn
	in.mu.Unlock()

	return func() {
		in.mu.Lock()
		delete(in.evFns[eventType], id)
		in.mu.Unlock()
	}
}

// EmitKey delivers a key press to all key subscribers.
func (in *Input) EmitKey(key string) {
	in.mu.RLock()
	fns := make([]func(string), 0, len(in.keyFns))
	for _, fn := range in.keyFns {
		fns = append(fns, fn)
	}
	in.mu.RUnlock()

	for _, fn := range fns {
		fn(key)
	}
}

// EmitInput delivers an input event to subscribers of its type.
func (in *Input) EmitInput(ev domain.InputEvent) {
	in.mu.RLock()
	fns := make([]domain.InputHandler, 0, len(in.evFns[ev.Type]))
	for _, fn := range in.evFns[ev.Type] {
		fns = append(fns, fn)
	}
	in.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}
