package ports

// Handle is an opaque reference to a host-owned object (a rendered
// container, a scene object). The core never inspects it.
type Handle = any

// SurfaceHost renders named containers on behalf of the layer tree. The core
// only creates, destroys, positions, and toggles containers; it never looks
// at what the host renders inside them.
type SurfaceHost interface {
	// CreateContainer allocates a top-level container for the given id.
	CreateContainer(id string) (Handle, error)

	// AppendChild re-parents child under parent.
	AppendChild(parent, child Handle)

	// RemoveChild detaches child from parent and releases it.
	RemoveChild(parent, child Handle)

	// SetVisible toggles a container without destroying its content.
	SetVisible(h Handle, visible bool)

	// SetStackOrder applies a stacking hint to the container.
	SetStackOrder(h Handle, order int)

	// SetContent replaces the rendered content of a container. A nil
	// content clears it.
	SetContent(h Handle, content any)
}

// Scheduler defers a callback to the host's next scheduling turn. Transition
// operations yield once through it before mutating anything, so a transition
// requested mid-frame never tears the frame it was requested in.
type Scheduler interface {
	RunOnNextTurn(fn func())
}

// SchedulerFunc adapts a plain function to the Scheduler interface.
type SchedulerFunc func(fn func())

func (s SchedulerFunc) RunOnNextTurn(fn func()) { s(fn) }
