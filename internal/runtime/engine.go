// Package runtime implements the scene stack engine: it owns the active
// stack, executes switch/push/pop, runs transition effects, activates and
// deactivates scene-scoped listeners, and keeps teardown ordering correct
// under overlapping transition requests.
package runtime

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/scenestack/scenestack/internal/resolver"
	"github.com/scenestack/scenestack/pkg/bus"
	"github.com/scenestack/scenestack/pkg/domain"
	"github.com/scenestack/scenestack/pkg/effects"
	"github.com/scenestack/scenestack/pkg/layers"
	"github.com/scenestack/scenestack/pkg/ports"
)

// Engine drives the scene stack. Transition operations are serialized: a
// second operation issued while one is in flight waits for it, after first
// marking the current entries stale so in-flight entry work can cancel
// itself cooperatively.
type Engine struct {
	logger    *slog.Logger
	tree      *layers.Tree
	bus       *bus.Bus
	effects   *effects.Registry
	sched     ports.Scheduler
	resources ports.ResourceManager
	history   ports.HistoryStore
	observers []Observer

	// runMu serializes Switch/Push/Pop end to end.
	runMu sync.Mutex

	// stateMu guards everything below.
	stateMu         sync.Mutex
	raw             map[string]*domain.SceneDecl
	scenes          map[string]*domain.SceneConfig
	stack           []string
	epochs          map[string]uint64
	inflight        map[string]*entryToken
	owned           map[string][]ports.Handle
	attached        map[string][]attachment
	activeScene     string
	activeBusSubs   []bus.Subscription
	activeKeys      []domain.KeyBinding
	changeListeners map[uuid.UUID]func(domain.StateChange)
}

// Observer is notified after every transition attempt, successful or not.
type Observer interface {
	ObserveTransition(op domain.TransitionOp, from, to string, err error)
}

type attachment struct {
	layer string
	sub   layers.Subscription
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithScheduler sets the host scheduler used to defer transition work to
// the next turn. The default runs the callback immediately.
func WithScheduler(sched ports.Scheduler) Option {
	return func(e *Engine) { e.sched = sched }
}

// WithResourceManager wires the external resource manager used by
// resource-owning scenes and stage clearing.
func WithResourceManager(mgr ports.ResourceManager) Option {
	return func(e *Engine) { e.resources = mgr }
}

// WithInputSource subscribes the engine to the host's key stream for
// scene-scoped key bindings.
func WithInputSource(input ports.InputSource) Option {
	return func(e *Engine) {
		input.SubscribeKeys(e.handleKey)
	}
}

// WithHistory records every completed state change in the store.
func WithHistory(store ports.HistoryStore) Option {
	return func(e *Engine) { e.history = store }
}

// WithObserver registers a transition observer (metrics, tracing).
func WithObserver(obs Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, obs) }
}

// New creates an engine on top of the given collaborators.
func New(tree *layers.Tree, eventBus *bus.Bus, effectRegistry *effects.Registry, opts ...Option) *Engine {
	e := &Engine{
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		tree:            tree,
		bus:             eventBus,
		effects:         effectRegistry,
		sched:           ports.SchedulerFunc(func(fn func()) { fn() }),
		raw:             make(map[string]*domain.SceneDecl),
		scenes:          make(map[string]*domain.SceneConfig),
		epochs:          make(map[string]uint64),
		inflight:        make(map[string]*entryToken),
		owned:           make(map[string][]ports.Handle),
		attached:        make(map[string][]attachment),
		changeListeners: make(map[uuid.UUID]func(domain.StateChange)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register resolves and stores a scene declaration. Registering a name
// twice overwrites the previous scene with a warning. Parents must be
// registered before children; an unknown parent degrades to a root scene.
func (e *Engine) Register(decl *domain.SceneDecl) {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()

	if _, exists := e.raw[decl.Name]; exists {
		e.logger.Warn("scene re-registered, overwriting", "scene", decl.Name)
	}
	e.raw[decl.Name] = decl

	lookup := func(name string) (*domain.SceneDecl, bool) {
		d, ok := e.raw[name]
		return d, ok
	}
	e.scenes[decl.Name] = resolver.Resolve(decl, lookup, e.logger)
}

// Scene returns the resolved configuration for a registered scene.
func (e *Engine) Scene(name string) (*domain.SceneConfig, bool) {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	cfg, ok := e.scenes[name]
	return cfg, ok
}

// SceneNames returns all registered scene names, sorted.
func (e *Engine) SceneNames() []string {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	names := make([]string, 0, len(e.scenes))
	for name := range e.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Current returns the active scene name, or empty when nothing has been
// entered yet.
func (e *Engine) Current() string {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	if len(e.stack) == 0 {
		return ""
	}
	return e.stack[len(e.stack)-1]
}

// Stack returns a snapshot of the scene stack, bottom first.
func (e *Engine) Stack() []string {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	out := make([]string, len(e.stack))
	copy(out, e.stack)
	return out
}

// OnStateChange registers a listener invoked after every completed stack
// mutation. The returned function removes it.
func (e *Engine) OnStateChange(fn func(domain.StateChange)) func() {
	id := uuid.New()
	e.stateMu.Lock()
	e.changeListeners[id] = fn
	e.stateMu.Unlock()

	return func() {
		e.stateMu.Lock()
		delete(e.changeListeners, id)
		e.stateMu.Unlock()
	}
}

// notifyChange emits the bus event, calls change listeners, and appends to
// the history store.
func (e *Engine) notifyChange(ctx context.Context, rec domain.StateChange) {
	e.bus.Emit(domain.EventStateChanged, &rec)

	e.stateMu.Lock()
	listeners := make([]func(domain.StateChange), 0, len(e.changeListeners))
	for _, fn := range e.changeListeners {
		listeners = append(listeners, fn)
	}
	e.stateMu.Unlock()

	for _, fn := range listeners {
		e.safeNotify(fn, rec)
	}

	if e.history != nil {
		if err := e.history.Append(ctx, rec); err != nil {
			e.logger.Error("failed to record state change", "err", err)
		}
	}
}

func (e *Engine) safeNotify(fn func(domain.StateChange), rec domain.StateChange) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("state change listener panicked", "panic", r)
		}
	}()
	fn(rec)
}

// activateListeners attaches the scene's scoped bus and key subscriptions.
// Each bus handler double-checks at dispatch time that its owner is still
// on top, covering the race between dispatch and deactivation.
func (e *Engine) activateListeners(name string) {
	cfg, ok := e.Scene(name)
	if !ok {
		return
	}

	subs := make([]bus.Subscription, 0, len(cfg.BusBindings))
	for _, binding := range cfg.BusBindings {
		handler := binding.Handler
		guarded := func(payload any) {
			if e.Current() != name {
				return
			}
			handler(payload)
		}
		subs = append(subs, e.bus.On(binding.Event, guarded))
	}

	e.stateMu.Lock()
	e.activeScene = name
	e.activeBusSubs = subs
	e.activeKeys = cfg.KeyBindings
	e.stateMu.Unlock()
}

// deactivateListeners detaches the currently active scene's scoped
// subscriptions. At most one scene's listeners are active at any instant
// outside a transition in progress.
func (e *Engine) deactivateListeners() {
	e.stateMu.Lock()
	subs := e.activeBusSubs
	e.activeScene = ""
	e.activeBusSubs = nil
	e.activeKeys = nil
	e.stateMu.Unlock()

	for _, sub := range subs {
		e.bus.Off(sub)
	}
}

func (e *Engine) handleKey(key string) {
	e.stateMu.Lock()
	owner := e.activeScene
	bindings := make([]domain.KeyBinding, len(e.activeKeys))
	copy(bindings, e.activeKeys)
	e.stateMu.Unlock()

	if owner == "" {
		return
	}
	for _, binding := range bindings {
		if binding.Key != key {
			continue
		}
		if e.Current() != owner {
			return
		}
		e.safeKey(binding, key)
	}
}

func (e *Engine) safeKey(binding domain.KeyBinding, key string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("key handler panicked", "key", key, "panic", r)
		}
	}()
	binding.Handler(key)
}

// managedSurfaces is every surface mentioned in any scene's visibility
// related declarations. The post-transition sweep shows or hides exactly
// these.
func (e *Engine) managedSurfaces() []string {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()

	seen := make(map[string]struct{})
	for _, cfg := range e.scenes {
		for _, s := range cfg.Visible {
			seen[s] = struct{}{}
		}
		for s := range cfg.PreserveOnExit {
			seen[s] = struct{}{}
		}
		for s := range cfg.CleanupOnExit {
			seen[s] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for s := range seen {
		names = append(names, s)
	}
	sort.Strings(names)
	return names
}

// applyVisibility creates the target's pre-declared surfaces, then sweeps
// all managed surfaces: shown if in the target's visible set, hidden
// otherwise, regardless of prior state.
func (e *Engine) applyVisibility(target *domain.SceneConfig) {
	for name, order := range target.Surfaces {
		if _, ok := e.tree.Get(name); ok {
			continue
		}
		if _, err := e.tree.Create(name, layers.WithStackOrder(order)); err != nil {
			e.logger.Warn("failed to create declared surface", "surface", name, "err", err)
		}
	}

	for _, name := range e.managedSurfaces() {
		l, ok := e.tree.Get(name)
		if !ok {
			continue
		}
		if target.IsVisible(name) {
			l.Show()
		} else {
			l.Hide()
		}
	}
}

func (e *Engine) yieldTurn(ctx context.Context) error {
	done := make(chan struct{})
	e.sched.RunOnNextTurn(func() { close(done) })
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) observe(op domain.TransitionOp, from, to string, err error) {
	for _, obs := range e.observers {
		obs.ObserveTransition(op, from, to, err)
	}
}
