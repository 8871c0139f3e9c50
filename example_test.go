package scenestack_test

import (
	"context"
	"fmt"
	"log"

	scenestack "github.com/scenestack/scenestack"
	"github.com/scenestack/scenestack/pkg/domain"
)

// ExampleNew demonstrates a minimal lobby/game flow: declarative visibility,
// a scoped key binding, and a push/pop overlay.
func ExampleNew() {
	director := scenestack.New()

	// 1. Declare the scenes. Surfaces are created lazily on first entry;
	// the visible set is swept on every transition.
	director.Register(director.Scene("lobby").
		DeclareSurface("menu", 10).
		Visible("menu").
		OnEnter(func(ctx context.Context, ev domain.EnterEvent) error {
			fmt.Println("entered lobby")
			return nil
		}))

	director.Register(director.Scene("game").
		DeclareSurface("hud", 10).
		Visible("hud").
		OnExit(func(ctx context.Context, ev domain.ExitEvent) error {
			fmt.Println("leaving game for", ev.To)
			return nil
		}))

	director.Register(director.Scene("pause").
		DeclareSurface("pause-menu", 100).
		Visible("pause-menu"))

	// 2. Drive the stack.
	ctx := context.Background()
	if err := director.Switch(ctx, "lobby", nil); err != nil {
		log.Fatal(err)
	}
	if err := director.Switch(ctx, "game", nil); err != nil {
		log.Fatal(err)
	}
	if err := director.Push(ctx, "pause", nil); err != nil {
		log.Fatal(err)
	}
	fmt.Println("stack:", director.Stack())

	// 3. Pop returns to the game without re-entering it.
	if err := director.Pop(ctx); err != nil {
		log.Fatal(err)
	}
	fmt.Println("current:", director.Current())

	// Output:
	// entered lobby
	// stack: [game pause]
	// current: game
}
