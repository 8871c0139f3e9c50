package dsl_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenestack/scenestack/pkg/domain"
	"github.com/scenestack/scenestack/pkg/dsl"
)

func TestBuilderAccumulates(t *testing.T) {
	enterRuns := 0
	hook := func(context.Context, domain.EnterEvent) error {
		enterRuns++
		return nil
	}

	decl := dsl.New("game").
		Extends("base").
		Visible("game", "hud").
		DeclareSurface("hud", 10).
		OnEnter(hook).
		OnEnter(hook).
		Transition("fade", 250*time.Millisecond).
		WithResources([]string{"board", "pieces"}, dsl.WithSpawnDelay(16*time.Millisecond)).
		OnKey("esc", func(string) {}).
		OnBusEvent("score.changed", func(any) {}).
		Build()

	assert.Equal(t, "game", decl.Name)
	assert.Equal(t, "base", decl.Parent)
	assert.Equal(t, []string{"game", "hud"}, decl.Visible)
	assert.Equal(t, map[string]int{"hud": 10}, decl.Surfaces)
	// Repeated OnEnter calls append, never replace.
	require.Len(t, decl.EnterHooks, 2)
	assert.Equal(t, "fade", decl.Effect)
	assert.Equal(t, 250*time.Millisecond, decl.EffectDuration)
	assert.Equal(t, []string{"board", "pieces"}, decl.Resources)
	assert.Equal(t, 16*time.Millisecond, decl.ResourceDelay)
	assert.Len(t, decl.KeyBindings, 1)
	assert.Len(t, decl.BusBindings, 1)
}

func TestBuildAddsPreservedSubscribedSurfacesToCleanup(t *testing.T) {
	decl := dsl.New("lobby").
		PreserveOnExit("chat", "banner").
		SubscribeInput("chat", "click", "", func(domain.InputEvent) {}).
		SubscribeInput("menu", "click", "", func(domain.InputEvent) {}).
		Build()

	// chat is preserved and subscribed: cleanup-on-exit.
	assert.Contains(t, decl.CleanupOnExit, "chat")
	// menu is subscribed but not preserved: default reset covers it.
	assert.NotContains(t, decl.CleanupOnExit, "menu")
	// banner is preserved but not subscribed: untouched.
	assert.NotContains(t, decl.CleanupOnExit, "banner")
}

func TestVisibleWithNoArgsDeclaresEmptySet(t *testing.T) {
	withCall := dsl.New("empty").Visible().Build()
	assert.NotNil(t, withCall.Visible)
	assert.Empty(t, withCall.Visible)

	withoutCall := dsl.New("inherit").Build()
	assert.Nil(t, withoutCall.Visible)
}
