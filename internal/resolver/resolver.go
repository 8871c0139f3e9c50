// Package resolver flattens scene declarations by applying single-parent
// inheritance. Resolution runs once per scene, at registration time; the
// transition path only ever sees resolved configurations.
package resolver

import (
	"log/slog"

	"github.com/scenestack/scenestack/pkg/domain"
)

// Lookup finds a registered raw declaration by scene name.
type Lookup func(name string) (*domain.SceneDecl, bool)

// Resolve flattens decl against its parent chain. Configuration errors
// (unknown parent, circular inheritance) are logged and degrade to treating
// the declaration as a root; they never fail registration.
func Resolve(decl *domain.SceneDecl, lookup Lookup, logger *slog.Logger) *domain.SceneConfig {
	visited := map[string]struct{}{decl.Name: {}}
	flat := flatten(decl, lookup, visited, logger)
	return toConfig(flat)
}

func flatten(decl *domain.SceneDecl, lookup Lookup, visited map[string]struct{}, logger *slog.Logger) *domain.SceneDecl {
	if decl.Parent == "" {
		return decl
	}

	if _, seen := visited[decl.Parent]; seen {
		logger.Error("circular scene inheritance, ignoring parent",
			"scene", decl.Name, "parent", decl.Parent)
		stripped := *decl
		stripped.Parent = ""
		return &stripped
	}

	parentDecl, ok := lookup(decl.Parent)
	if !ok {
		logger.Error("parent scene not registered, ignoring parent",
			"scene", decl.Name, "parent", decl.Parent)
		stripped := *decl
		stripped.Parent = ""
		return &stripped
	}

	visited[decl.Parent] = struct{}{}
	parent := flatten(parentDecl, lookup, visited, logger)
	return merge(parent, decl)
}

// merge overlays child on parent. Parent hooks are chained ahead of the
// child's so they run to completion first, for both enter and exit.
func merge(parent, child *domain.SceneDecl) *domain.SceneDecl {
	out := &domain.SceneDecl{
		Name: child.Name,
	}

	if len(parent.Surfaces)+len(child.Surfaces) > 0 {
		out.Surfaces = make(map[string]int, len(parent.Surfaces)+len(child.Surfaces))
		for name, order := range parent.Surfaces {
			out.Surfaces[name] = order
		}
		for name, order := range child.Surfaces {
			out.Surfaces[name] = order
		}
	}

	if child.Visible != nil {
		out.Visible = child.Visible
	} else {
		out.Visible = parent.Visible
	}

	out.PreserveOnExit = unionStrings(parent.PreserveOnExit, child.PreserveOnExit)
	out.CleanupOnExit = unionStrings(parent.CleanupOnExit, child.CleanupOnExit)
	out.Resources = unionStrings(parent.Resources, child.Resources)

	out.ResourceDelay = child.ResourceDelay
	if out.ResourceDelay == 0 {
		out.ResourceDelay = parent.ResourceDelay
	}

	out.Effect = child.Effect
	out.EffectDuration = child.EffectDuration
	if out.Effect == "" {
		out.Effect = parent.Effect
		out.EffectDuration = parent.EffectDuration
	}

	out.EnterHooks = append(append([]domain.EnterHook{}, parent.EnterHooks...), child.EnterHooks...)
	out.ExitHooks = append(append([]domain.ExitHook{}, parent.ExitHooks...), child.ExitHooks...)

	out.BusBindings = append(append([]domain.BusBinding{}, parent.BusBindings...), child.BusBindings...)
	out.KeyBindings = append(append([]domain.KeyBinding{}, parent.KeyBindings...), child.KeyBindings...)
	out.InputBindings = append(append([]domain.InputBinding{}, parent.InputBindings...), child.InputBindings...)
	out.HostInputBindings = append(append([]domain.HostInputBinding{}, parent.HostInputBindings...), child.HostInputBindings...)

	out.ClearStage = parent.ClearStage || child.ClearStage
	out.ClearStageIgnore = unionStrings(parent.ClearStageIgnore, child.ClearStageIgnore)

	return out
}

func toConfig(decl *domain.SceneDecl) *domain.SceneConfig {
	cfg := &domain.SceneConfig{
		Name:              decl.Name,
		Visible:           decl.Visible,
		Surfaces:          decl.Surfaces,
		PreserveOnExit:    toSet(decl.PreserveOnExit),
		CleanupOnExit:     toSet(decl.CleanupOnExit),
		Resources:         decl.Resources,
		ResourceDelay:     decl.ResourceDelay,
		Effect:            decl.Effect,
		EffectDuration:    decl.EffectDuration,
		EnterHooks:        decl.EnterHooks,
		ExitHooks:         decl.ExitHooks,
		BusBindings:       decl.BusBindings,
		KeyBindings:       decl.KeyBindings,
		InputBindings:     decl.InputBindings,
		HostInputBindings: decl.HostInputBindings,
		ClearStage:        decl.ClearStage,
		ClearStageIgnore:  decl.ClearStageIgnore,
	}
	if cfg.Effect != "" && cfg.EffectDuration == 0 {
		cfg.EffectDuration = domain.DefaultEffectDuration
	}
	return cfg
}

func unionStrings(a, b []string) []string {
	if len(a)+len(b) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if _, dup := seen[s]; !dup {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	for _, s := range b {
		if _, dup := seen[s]; !dup {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
