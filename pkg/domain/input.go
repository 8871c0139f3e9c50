package domain

// InputEvent is a pointer/gesture event delivered by the host input surface.
// Path names the event origin first, followed by its ancestors up to the
// root, so containment and selector checks are simple membership tests.
type InputEvent struct {
	Type   string
	Origin string
	Path   []string
	Data   any
}

// Contains reports whether name appears anywhere on the event's origin path.
func (ev InputEvent) Contains(name string) bool {
	if ev.Origin == name {
		return true
	}
	for _, p := range ev.Path {
		if p == name {
			return true
		}
	}
	return false
}

// InputHandler consumes a routed input event.
type InputHandler func(ev InputEvent)

// KeyHandler consumes a key press while its owning scene is active.
type KeyHandler func(key string)
