package domain

import "time"

// DefaultEffectDuration applies when a scene declares a transition effect
// without a duration.
const DefaultEffectDuration = 300 * time.Millisecond

// BusBinding is an event-bus subscription scoped to "owning scene is active".
type BusBinding struct {
	Event   string
	Handler func(payload any)
}

// KeyBinding is a key subscription scoped to "owning scene is active".
type KeyBinding struct {
	Key     string
	Handler KeyHandler
}

// InputBinding is a delegated input subscription on a named surface. It is
// attached as the final step of scene entry and detached on exit.
type InputBinding struct {
	Surface   string
	EventType string
	Selector  string
	Handler   InputHandler
}

// HostInputBinding subscribes to the host's global input surface on behalf
// of a named surface, so the subscription is torn down with that surface.
type HostInputBinding struct {
	Surface   string
	EventType string
	Handler   InputHandler
}

// SceneDecl is the raw, unresolved output of a SceneBuilder. Parent
// references are resolved once, at registration time, never during a
// transition.
type SceneDecl struct {
	Name   string
	Parent string

	// Visible is the set of surfaces shown while the scene is active. A nil
	// slice means "not declared" and inherits the parent's set; an empty
	// non-nil slice declares "show nothing".
	Visible []string

	// Surfaces maps surface names to a stacking hint; they are created
	// before the scene's first activation if missing.
	Surfaces map[string]int

	PreserveOnExit []string
	CleanupOnExit  []string

	Resources     []string
	ResourceDelay time.Duration

	Effect         string
	EffectDuration time.Duration

	EnterHooks []EnterHook
	ExitHooks  []ExitHook

	BusBindings       []BusBinding
	KeyBindings       []KeyBinding
	InputBindings     []InputBinding
	HostInputBindings []HostInputBinding

	ClearStage       bool
	ClearStageIgnore []string
}

// SceneConfig is the flattened, executable form of a scene after single
// parent inheritance has been applied. It is immutable once registered.
type SceneConfig struct {
	Name string

	Visible        []string
	Surfaces       map[string]int
	PreserveOnExit map[string]struct{}
	CleanupOnExit  map[string]struct{}

	Resources     []string
	ResourceDelay time.Duration

	Effect         string
	EffectDuration time.Duration

	EnterHooks []EnterHook
	ExitHooks  []ExitHook

	BusBindings       []BusBinding
	KeyBindings       []KeyBinding
	InputBindings     []InputBinding
	HostInputBindings []HostInputBinding

	ClearStage       bool
	ClearStageIgnore []string
}

// IsVisible reports whether the scene shows the named surface while active.
func (c *SceneConfig) IsVisible(surface string) bool {
	for _, v := range c.Visible {
		if v == surface {
			return true
		}
	}
	return false
}

// Preserved reports whether the surface is exempt from reset on exit.
func (c *SceneConfig) Preserved(surface string) bool {
	_, ok := c.PreserveOnExit[surface]
	return ok
}

// CleanupOnly reports whether the surface only loses its listeners on exit.
func (c *SceneConfig) CleanupOnly(surface string) bool {
	_, ok := c.CleanupOnExit[surface]
	return ok
}
