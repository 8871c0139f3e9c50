package dsl

import (
	"time"

	"github.com/scenestack/scenestack/pkg/domain"
)

// SceneBuilder accumulates a scene declaration. Repeated hook calls append;
// they never replace earlier hooks.
type SceneBuilder struct {
	decl domain.SceneDecl
}

// New starts a declaration for the named scene.
func New(name string) *SceneBuilder {
	return &SceneBuilder{decl: domain.SceneDecl{Name: name}}
}

// Extends declares single-parent inheritance from another scene. The parent
// is resolved once, at registration time.
func (b *SceneBuilder) Extends(parent string) *SceneBuilder {
	b.decl.Parent = parent
	return b
}

// Visible declares the surfaces shown while the scene is active. Calling it
// with no names declares "show nothing"; not calling it inherits the
// parent's set.
func (b *SceneBuilder) Visible(surfaces ...string) *SceneBuilder {
	if b.decl.Visible == nil {
		b.decl.Visible = []string{}
	}
	b.decl.Visible = append(b.decl.Visible, surfaces...)
	return b
}

// DeclareSurface pre-declares a surface with a stacking hint; it is created
// before the scene first activates.
func (b *SceneBuilder) DeclareSurface(name string, stackOrder int) *SceneBuilder {
	if b.decl.Surfaces == nil {
		b.decl.Surfaces = make(map[string]int)
	}
	b.decl.Surfaces[name] = stackOrder
	return b
}

// OnEnter appends an enter hook.
func (b *SceneBuilder) OnEnter(hook domain.EnterHook) *SceneBuilder {
	b.decl.EnterHooks = append(b.decl.EnterHooks, hook)
	return b
}

// OnExit appends an exit hook.
func (b *SceneBuilder) OnExit(hook domain.ExitHook) *SceneBuilder {
	b.decl.ExitHooks = append(b.decl.ExitHooks, hook)
	return b
}

// Transition selects the named transition effect. A zero duration falls
// back to the engine default.
func (b *SceneBuilder) Transition(effect string, duration time.Duration) *SceneBuilder {
	b.decl.Effect = effect
	b.decl.EffectDuration = duration
	return b
}

// ResourceOption configures resource instantiation for WithResources.
type ResourceOption func(*domain.SceneDecl)

// WithSpawnDelay spreads instantiation cost by waiting between items.
func WithSpawnDelay(d time.Duration) ResourceOption {
	return func(decl *domain.SceneDecl) {
		decl.ResourceDelay = d
	}
}

// WithResources declares externally managed resources. They are
// instantiated one at a time during entry and destroyed on exit; entry work
// is rolled back if a later transition supersedes it.
func (b *SceneBuilder) WithResources(names []string, opts ...ResourceOption) *SceneBuilder {
	b.decl.Resources = append(b.decl.Resources, names...)
	for _, opt := range opts {
		opt(&b.decl)
	}
	return b
}

// SubscribeInput declares a delegated input subscription on a surface. It
// is attached as the final step of entry, only if the entry is still
// current, and detached on exit.
func (b *SceneBuilder) SubscribeInput(surface, eventType, selector string, fn domain.InputHandler) *SceneBuilder {
	b.decl.InputBindings = append(b.decl.InputBindings, domain.InputBinding{
		Surface:   surface,
		EventType: eventType,
		Selector:  selector,
		Handler:   fn,
	})
	return b
}

// SubscribeHostInput declares a host-global input subscription owned by a
// surface, torn down with that surface.
func (b *SceneBuilder) SubscribeHostInput(surface, eventType string, fn domain.InputHandler) *SceneBuilder {
	b.decl.HostInputBindings = append(b.decl.HostInputBindings, domain.HostInputBinding{
		Surface:   surface,
		EventType: eventType,
		Handler:   fn,
	})
	return b
}

// OnBusEvent declares an event-bus subscription active only while this
// scene is on top of the stack.
func (b *SceneBuilder) OnBusEvent(event string, fn func(payload any)) *SceneBuilder {
	b.decl.BusBindings = append(b.decl.BusBindings, domain.BusBinding{Event: event, Handler: fn})
	return b
}

// OnKey declares a key subscription active only while this scene is on top
// of the stack.
func (b *SceneBuilder) OnKey(key string, fn domain.KeyHandler) *SceneBuilder {
	b.decl.KeyBindings = append(b.decl.KeyBindings, domain.KeyBinding{Key: key, Handler: fn})
	return b
}

// PreserveOnExit exempts surfaces from the automatic reset when the scene
// leaves the stack.
func (b *SceneBuilder) PreserveOnExit(surfaces ...string) *SceneBuilder {
	b.decl.PreserveOnExit = append(b.decl.PreserveOnExit, surfaces...)
	return b
}

// CleanupOnExit limits exit handling for the named surfaces to listener
// teardown; their content survives.
func (b *SceneBuilder) CleanupOnExit(surfaces ...string) *SceneBuilder {
	b.decl.CleanupOnExit = append(b.decl.CleanupOnExit, surfaces...)
	return b
}

// ClearStage destroys every externally managed object on entry, except the
// ignore list. Objects the resource manager marks permanently protected
// (the active camera equivalent) are always kept.
func (b *SceneBuilder) ClearStage(ignore ...string) *SceneBuilder {
	b.decl.ClearStage = true
	b.decl.ClearStageIgnore = append(b.decl.ClearStageIgnore, ignore...)
	return b
}

// Build finalizes the declaration. Any surface carrying an input binding
// that is also preserved on exit is added to the cleanup-on-exit set, so a
// preserved surface still loses its listeners even though its content
// survives.
func (b *SceneBuilder) Build() *domain.SceneDecl {
	decl := b.decl

	preserved := make(map[string]struct{}, len(decl.PreserveOnExit))
	for _, s := range decl.PreserveOnExit {
		preserved[s] = struct{}{}
	}
	cleanup := make(map[string]struct{}, len(decl.CleanupOnExit))
	for _, s := range decl.CleanupOnExit {
		cleanup[s] = struct{}{}
	}

	addCleanup := func(surface string) {
		if _, isPreserved := preserved[surface]; !isPreserved {
			return
		}
		if _, exists := cleanup[surface]; exists {
			return
		}
		cleanup[surface] = struct{}{}
		decl.CleanupOnExit = append(decl.CleanupOnExit, surface)
	}
	for _, binding := range decl.InputBindings {
		addCleanup(binding.Surface)
	}
	for _, binding := range decl.HostInputBindings {
		addCleanup(binding.Surface)
	}

	return &decl
}
