/*
Package scenestack is a stack-based scene state machine for driving
application flow: menus, gameplay scenes, pause overlays, and the surfaces,
resources, and listeners each of them owns.

# Concept

Application flow is modeled as a stack of scenes. Exactly one scene, the
top of the stack, is active: its scoped bus and key listeners receive
events, its declared surfaces are visible, everything else is hidden.
Switch replaces the whole stack, Push layers a scene on top, Pop returns
to the scene beneath without re-entering it.

Scenes are declared with a fluent builder and may extend a single parent;
inheritance is flattened once, at registration time. Entering a scene runs
its enter hooks and instantiates its declared resources; a transition
issued mid-entry supersedes the entry, which rolls back what it built and
unwinds.

# Usage

	director := scenestack.New()

	director.Register(director.Scene("lobby").
		DeclareSurface("menu", 10).
		Visible("menu").
		OnKey("enter", func(key string) { ... }))

	director.Register(director.Scene("game").
		Extends("lobby").
		Visible().
		WithResources([]string{"board", "pieces"}))

	if err := director.Switch(ctx, "lobby", nil); err != nil {
		log.Fatal(err)
	}

The core is host-agnostic: surfaces, input, and resources reach the
outside world through the interfaces in pkg/ports. In-memory adapters in
pkg/adapters/memory cover tests and headless runs; pkg/adapters/redis
persists transition history; pkg/adapters/http exposes the stack over a
JSON API.
*/
package scenestack
