package layers

import (
	"github.com/google/uuid"

	"github.com/scenestack/scenestack/pkg/domain"
)

// Layer is a named node in the surface tree. All mutation goes through the
// owning Tree's host; the Layer only carries bookkeeping.
type Layer struct {
	tree       *Tree
	name       string
	parent     *Layer
	children   []*Layer
	handle     any
	visible    bool
	stackOrder int

	// pairs holds delegated (selector, handler) pairs per event type.
	pairs map[string][]delegatedPair

	hostUnsubs []func()
	cleanups   []func()
}

type delegatedPair struct {
	id       uuid.UUID
	selector string
	fn       domain.InputHandler
}

// Subscription identifies one delegated (selector, handler) pair.
type Subscription struct {
	Layer     string
	EventType string
	id        uuid.UUID
}

// Name returns the layer's unique name.
func (l *Layer) Name() string { return l.name }

// Visible reports the current visibility flag.
func (l *Layer) Visible() bool { return l.visible }

// Handle exposes the host handle backing this layer.
func (l *Layer) Handle() any { return l.handle }

// Show makes the layer visible without touching its content.
func (l *Layer) Show() {
	l.visible = true
	l.tree.host.SetVisible(l.handle, true)
}

// Hide conceals the layer without destroying content.
func (l *Layer) Hide() {
	l.visible = false
	l.tree.host.SetVisible(l.handle, false)
}

// ReplaceContent removes all child layers and every delegated subscription,
// then installs the new content. The removal is irreversible.
func (l *Layer) ReplaceContent(content any) {
	for _, child := range l.snapshotChildren() {
		l.tree.destroyLayer(child)
	}
	l.clearDelegated()
	l.tree.host.SetContent(l.handle, content)
}

// Subscribe registers a delegated (selector, handler) pair for the event
// type. Exactly one underlying listener per event type backs any number of
// pairs; it is installed with the first pair and removed with the last.
func (l *Layer) Subscribe(eventType, selector string, fn domain.InputHandler) Subscription {
	sub := Subscription{Layer: l.name, EventType: eventType, id: uuid.New()}

	l.tree.mu.Lock()
	defer l.tree.mu.Unlock()

	if len(l.pairs[eventType]) == 0 {
		l.tree.registerDelegate(eventType, l)
	}
	l.pairs[eventType] = append(l.pairs[eventType], delegatedPair{
		id:       sub.id,
		selector: selector,
		fn:       fn,
	})
	return sub
}

// Unsubscribe removes one delegated pair. Removing the last pair for an
// event type removes the underlying listener as well.
func (l *Layer) Unsubscribe(sub Subscription) {
	l.tree.mu.Lock()
	defer l.tree.mu.Unlock()

	pairs := l.pairs[sub.EventType]
	for i, p := range pairs {
		if p.id == sub.id {
			l.pairs[sub.EventType] = append(pairs[:i:i], pairs[i+1:]...)
			break
		}
	}
	if len(l.pairs[sub.EventType]) == 0 {
		delete(l.pairs, sub.EventType)
		l.tree.unregisterDelegate(sub.EventType, l)
	}
}

// SubscribeToHost subscribes to the host's global input surface on this
// layer's behalf. The subscription is removed when the layer is reset or
// destroyed, so layer-scoped global input stops with the layer's content.
func (l *Layer) SubscribeToHost(eventType string, fn domain.InputHandler) {
	if l.tree.input == nil {
		l.tree.logger.Warn("no input source configured, host subscription dropped",
			"layer", l.name, "event_type", eventType)
		return
	}
	unsub := l.tree.input.Subscribe(eventType, fn)

	l.tree.mu.Lock()
	l.hostUnsubs = append(l.hostUnsubs, unsub)
	l.tree.mu.Unlock()
}

// AddCleanupTask registers a callback invoked exactly once during Reset (or
// destruction), before subscriptions are torn down. A panicking task is
// recovered and logged; the remaining tasks still run.
func (l *Layer) AddCleanupTask(fn func()) {
	l.tree.mu.Lock()
	l.cleanups = append(l.cleanups, fn)
	l.tree.mu.Unlock()
}

// Reset destroys all child layers first, then runs cleanup tasks, tears
// down this layer's subscriptions, and clears its content. The layer itself
// stays in the tree.
func (l *Layer) Reset() {
	for _, child := range l.snapshotChildren() {
		l.tree.destroyLayer(child)
	}
	l.runCleanupTasks()
	l.clearSubscriptions()
	l.tree.host.SetContent(l.handle, nil)
}

// ClearSubscriptions removes every delegated pair and host subscription
// without touching content. Used for surfaces marked cleanup-on-exit.
func (l *Layer) ClearSubscriptions() {
	l.clearSubscriptions()
}

// Children returns the layer's current children.
func (l *Layer) Children() []*Layer {
	return l.snapshotChildren()
}

// dispatch invokes every matching pair for the event. Destruction mutates
// pair lists, so it walks a snapshot.
func (l *Layer) dispatch(ev domain.InputEvent) {
	if !ev.Contains(l.name) {
		return
	}

	l.tree.mu.RLock()
	pairs := make([]delegatedPair, len(l.pairs[ev.Type]))
	copy(pairs, l.pairs[ev.Type])
	l.tree.mu.RUnlock()

	for _, p := range pairs {
		if !selectorMatches(p.selector, ev) {
			continue
		}
		l.invoke(ev, p)
	}
}

func (l *Layer) invoke(ev domain.InputEvent, p delegatedPair) {
	defer func() {
		if r := recover(); r != nil {
			l.tree.logger.Error("input handler panicked",
				"layer", l.name, "event_type", ev.Type, "panic", r)
		}
	}()
	p.fn(ev)
}

// selectorMatches reports whether the pair's selector applies to the event.
// An empty selector matches anything inside the layer; otherwise the
// selector must name the origin or one of its ancestors.
func selectorMatches(selector string, ev domain.InputEvent) bool {
	if selector == "" {
		return true
	}
	return ev.Contains(selector)
}

func (l *Layer) snapshotChildren() []*Layer {
	l.tree.mu.RLock()
	defer l.tree.mu.RUnlock()
	out := make([]*Layer, len(l.children))
	copy(out, l.children)
	return out
}

func (l *Layer) unlinkChild(child *Layer) {
	for i, c := range l.children {
		if c == child {
			l.children = append(l.children[:i:i], l.children[i+1:]...)
			return
		}
	}
}

func (l *Layer) runCleanupTasks() {
	l.tree.mu.Lock()
	tasks := l.cleanups
	l.cleanups = nil
	l.tree.mu.Unlock()

	for _, task := range tasks {
		l.runCleanupTask(task)
	}
}

func (l *Layer) runCleanupTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.tree.logger.Error("cleanup task panicked", "layer", l.name, "panic", r)
		}
	}()
	task()
}

func (l *Layer) clearDelegated() {
	l.tree.mu.Lock()
	for eventType := range l.pairs {
		l.tree.unregisterDelegate(eventType, l)
	}
	l.pairs = make(map[string][]delegatedPair)
	l.tree.mu.Unlock()
}

func (l *Layer) clearSubscriptions() {
	l.tree.mu.Lock()
	for eventType := range l.pairs {
		l.tree.unregisterDelegate(eventType, l)
	}
	l.pairs = make(map[string][]delegatedPair)
	unsubs := l.hostUnsubs
	l.hostUnsubs = nil
	l.tree.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}
