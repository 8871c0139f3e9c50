package resolver

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenestack/scenestack/pkg/domain"
	"github.com/scenestack/scenestack/pkg/dsl"
)

func nopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func lookupIn(decls map[string]*domain.SceneDecl) Lookup {
	return func(name string) (*domain.SceneDecl, bool) {
		d, ok := decls[name]
		return d, ok
	}
}

func TestResolveRootIsUnchanged(t *testing.T) {
	decl := dsl.New("lobby").Visible("menu").Transition("fade", 0).Build()

	cfg := Resolve(decl, lookupIn(nil), nopLogger())

	assert.Equal(t, "lobby", cfg.Name)
	assert.Equal(t, []string{"menu"}, cfg.Visible)
	assert.Equal(t, "fade", cfg.Effect)
	assert.Equal(t, domain.DefaultEffectDuration, cfg.EffectDuration)
}

func TestResolveMergesParent(t *testing.T) {
	var order []string
	enter := func(tag string) domain.EnterHook {
		return func(context.Context, domain.EnterEvent) error {
			order = append(order, tag)
			return nil
		}
	}

	decls := map[string]*domain.SceneDecl{
		"base": dsl.New("base").
			Visible("hud").
			DeclareSurface("hud", 1).
			DeclareSurface("menu", 2).
			PreserveOnExit("hud").
			WithResources([]string{"camera-rig"}).
			OnEnter(enter("base")).
			Transition("fade", 100*time.Millisecond).
			Build(),
	}
	child := dsl.New("game").
		Extends("base").
		Visible("game").
		DeclareSurface("menu", 9).
		PreserveOnExit("scorebar").
		WithResources([]string{"board"}).
		OnEnter(enter("game")).
		Build()

	cfg := Resolve(child, lookupIn(decls), nopLogger())

	// Child's declared visible set replaces the parent's.
	assert.Equal(t, []string{"game"}, cfg.Visible)
	// Child wins on surface-map collisions.
	assert.Equal(t, map[string]int{"hud": 1, "menu": 9}, cfg.Surfaces)
	// Sets are unioned.
	assert.Equal(t, map[string]struct{}{"hud": {}, "scorebar": {}}, cfg.PreserveOnExit)
	assert.Equal(t, []string{"camera-rig", "board"}, cfg.Resources)
	// Effect inherited when the child declares none.
	assert.Equal(t, "fade", cfg.Effect)
	assert.Equal(t, 100*time.Millisecond, cfg.EffectDuration)

	// Parent hook runs to completion before the child's.
	require.Len(t, cfg.EnterHooks, 2)
	for _, hook := range cfg.EnterHooks {
		require.NoError(t, hook(context.Background(), domain.EnterEvent{}))
	}
	assert.Equal(t, []string{"base", "game"}, order)
}

func TestResolveInheritsVisibleWhenUndeclared(t *testing.T) {
	decls := map[string]*domain.SceneDecl{
		"base": dsl.New("base").Visible("hud").Build(),
	}
	child := dsl.New("child").Extends("base").Build()

	cfg := Resolve(child, lookupIn(decls), nopLogger())
	assert.Equal(t, []string{"hud"}, cfg.Visible)
}

func TestResolveUnknownParentDegradesToRoot(t *testing.T) {
	child := dsl.New("child").Extends("ghost").Visible("a").Build()

	cfg := Resolve(child, lookupIn(nil), nopLogger())
	assert.Equal(t, []string{"a"}, cfg.Visible)
	assert.Empty(t, cfg.Resources)
}

func TestResolveCycleTerminates(t *testing.T) {
	a := dsl.New("a").Extends("b").Visible("a-surface").Build()
	b := dsl.New("b").Extends("a").Visible("b-surface").Build()
	decls := map[string]*domain.SceneDecl{"a": a, "b": b}

	done := make(chan *domain.SceneConfig, 2)
	go func() {
		done <- Resolve(a, lookupIn(decls), nopLogger())
		done <- Resolve(b, lookupIn(decls), nopLogger())
	}()

	select {
	case cfg := <-done:
		assert.Equal(t, "a", cfg.Name)
		assert.Equal(t, []string{"a-surface"}, cfg.Visible)
	case <-time.After(2 * time.Second):
		t.Fatal("cycle resolution did not terminate")
	}
	select {
	case cfg := <-done:
		assert.Equal(t, "b", cfg.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("cycle resolution did not terminate")
	}
}
