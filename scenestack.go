package scenestack

import (
	"context"
	"log/slog"

	"github.com/scenestack/scenestack/internal/logging"
	"github.com/scenestack/scenestack/internal/runtime"
	"github.com/scenestack/scenestack/pkg/adapters/memory"
	"github.com/scenestack/scenestack/pkg/bus"
	"github.com/scenestack/scenestack/pkg/domain"
	"github.com/scenestack/scenestack/pkg/dsl"
	"github.com/scenestack/scenestack/pkg/effects"
	"github.com/scenestack/scenestack/pkg/layers"
	"github.com/scenestack/scenestack/pkg/ports"
)

// Director is the high-level entry point for the library. It owns the layer
// tree, the event bus, the effect registry, and the scene stack engine, and
// exposes a simplified API for consumers.
type Director struct {
	engine  *runtime.Engine
	tree    *layers.Tree
	bus     *bus.Bus
	effects *effects.Registry
	logger  *slog.Logger

	host      ports.SurfaceHost
	input     ports.InputSource
	resources ports.ResourceManager
	history   ports.HistoryStore
	observers []runtime.Observer
	sched     ports.Scheduler
}

// Option configures a Director.
type Option func(*Director)

// WithLogger sets a custom structured logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Director) { d.logger = logger }
}

// WithHost injects the surface host. The default is an in-memory host,
// useful for tests and headless runs.
func WithHost(host ports.SurfaceHost) Option {
	return func(d *Director) { d.host = host }
}

// WithInputSource wires the host's key and pointer streams into the engine
// and the layer tree.
func WithInputSource(input ports.InputSource) Option {
	return func(d *Director) { d.input = input }
}

// WithResourceManager wires an external resource manager for scenes that
// declare resources or clear the stage.
func WithResourceManager(mgr ports.ResourceManager) Option {
	return func(d *Director) { d.resources = mgr }
}

// WithHistory records every state change in the given store.
func WithHistory(store ports.HistoryStore) Option {
	return func(d *Director) { d.history = store }
}

// WithObserver registers a transition observer, typically a metrics
// recorder.
func WithObserver(obs runtime.Observer) Option {
	return func(d *Director) { d.observers = append(d.observers, obs) }
}

// WithScheduler sets the host scheduler used to defer transition work to
// the next host turn.
func WithScheduler(sched ports.Scheduler) Option {
	return func(d *Director) { d.sched = sched }
}

// New builds a Director. With no options it runs fully in memory.
func New(opts ...Option) *Director {
	d := &Director{
		logger: logging.NewNop(),
		bus:    bus.New(),
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.host == nil {
		d.host = memory.NewHost()
	}

	treeOpts := []layers.Option{layers.WithLogger(d.logger)}
	if d.input != nil {
		treeOpts = append(treeOpts, layers.WithInputSource(d.input))
	}
	d.tree = layers.New(d.host, treeOpts...)
	d.effects = effects.NewRegistry(effects.WithLogger(d.logger))

	engineOpts := []runtime.Option{runtime.WithLogger(d.logger)}
	if d.input != nil {
		engineOpts = append(engineOpts, runtime.WithInputSource(d.input))
	}
	if d.resources != nil {
		engineOpts = append(engineOpts, runtime.WithResourceManager(d.resources))
	}
	if d.history != nil {
		engineOpts = append(engineOpts, runtime.WithHistory(d.history))
	}
	if d.sched != nil {
		engineOpts = append(engineOpts, runtime.WithScheduler(d.sched))
	}
	for _, obs := range d.observers {
		engineOpts = append(engineOpts, runtime.WithObserver(obs))
	}
	d.engine = runtime.New(d.tree, d.bus, d.effects, engineOpts...)

	return d
}

// Scene starts a scene declaration. Call Register on the result (or pass
// the built declaration to Register) to make it available for transitions.
func (d *Director) Scene(name string) *dsl.SceneBuilder {
	return dsl.New(name)
}

// Register resolves and stores a scene declaration.
func (d *Director) Register(b *dsl.SceneBuilder) {
	d.engine.Register(b.Build())
}

// RegisterDecl stores an already built scene declaration.
func (d *Director) RegisterDecl(decl *domain.SceneDecl) {
	d.engine.Register(decl)
}

// RegisterEffect adds a named transition effect.
func (d *Director) RegisterEffect(name string, effect effects.Effect) {
	d.effects.Register(name, effect)
}

// Switch replaces the whole stack with the target scene.
func (d *Director) Switch(ctx context.Context, target string, payload any) error {
	return d.engine.Switch(ctx, target, payload)
}

// Push enters the target scene on top of the current one.
func (d *Director) Push(ctx context.Context, target string, payload any) error {
	return d.engine.Push(ctx, target, payload)
}

// Pop exits the top scene and reveals the one beneath it.
func (d *Director) Pop(ctx context.Context) error {
	return d.engine.Pop(ctx)
}

// Current returns the active scene name, or empty before the first
// transition.
func (d *Director) Current() string { return d.engine.Current() }

// Stack returns a snapshot of the scene stack, bottom first.
func (d *Director) Stack() []string { return d.engine.Stack() }

// SceneNames returns all registered scene names, sorted.
func (d *Director) SceneNames() []string { return d.engine.SceneNames() }

// OnStateChange registers a listener for completed stack mutations. The
// returned function removes it.
func (d *Director) OnStateChange(fn func(domain.StateChange)) func() {
	return d.engine.OnStateChange(fn)
}

// Bus exposes the shared event bus.
func (d *Director) Bus() *bus.Bus { return d.bus }

// Layers exposes the layer tree for direct surface management.
func (d *Director) Layers() *layers.Tree { return d.tree }

// Effects exposes the transition effect registry.
func (d *Director) Effects() *effects.Registry { return d.effects }
