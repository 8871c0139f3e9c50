// Package layers implements the tree of named visual surfaces: show/hide,
// content replacement, delegated and host-scoped input subscriptions, and
// recursive teardown. A Tree drives a ports.SurfaceHost; it decides when
// containers are created, destroyed, and toggled, never how they render.
package layers

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/scenestack/scenestack/pkg/domain"
	"github.com/scenestack/scenestack/pkg/ports"
)

// Tree owns every live Layer. Names are unique across the whole tree.
type Tree struct {
	mu     sync.RWMutex
	logger *slog.Logger
	host   ports.SurfaceHost
	input  ports.InputSource

	nodes map[string]*Layer

	// delegates maps event type -> layer name -> layer. One entry per
	// (type, layer) is the "underlying listener": it exists while at least
	// one (selector, handler) pair is registered on that layer for the type.
	delegates map[string]map[string]*Layer
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the structured logger for degraded-path warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tree) {
		t.logger = logger
	}
}

// WithInputSource wires the host's global input surface, enabling
// Layer.SubscribeToHost.
func WithInputSource(input ports.InputSource) Option {
	return func(t *Tree) {
		t.input = input
	}
}

// New creates an empty tree on top of the given host.
func New(host ports.SurfaceHost, opts ...Option) *Tree {
	t := &Tree{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		host:      host,
		nodes:     make(map[string]*Layer),
		delegates: make(map[string]map[string]*Layer),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CreateOption configures layer creation.
type CreateOption func(*createConfig)

type createConfig struct {
	parent     string
	stackOrder int
	hasOrder   bool
}

// WithParent nests the new layer under the named parent. An unknown parent
// falls back to top-level creation with a warning; it never fails the call.
func WithParent(name string) CreateOption {
	return func(cfg *createConfig) {
		cfg.parent = name
	}
}

// WithStackOrder applies a stacking hint to the new layer.
func WithStackOrder(order int) CreateOption {
	return func(cfg *createConfig) {
		cfg.stackOrder = order
		cfg.hasOrder = true
	}
}

// Create allocates a new named layer. It fails if the name is taken.
func (t *Tree) Create(name string, opts ...CreateOption) (*Layer, error) {
	cfg := createConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.nodes[name]; exists {
		return nil, fmt.Errorf("create layer %q: %w", name, domain.ErrSurfaceExists)
	}

	var parent *Layer
	if cfg.parent != "" {
		p, ok := t.nodes[cfg.parent]
		if !ok {
			t.logger.Warn("parent layer not found, creating at top level",
				"layer", name, "parent", cfg.parent)
		} else {
			parent = p
		}
	}

	handle, err := t.host.CreateContainer(name)
	if err != nil {
		return nil, fmt.Errorf("create container %q: %w", name, err)
	}

	l := &Layer{
		tree:    t,
		name:    name,
		parent:  parent,
		handle:  handle,
		visible: true,
		pairs:   make(map[string][]delegatedPair),
	}
	if parent != nil {
		t.host.AppendChild(parent.handle, handle)
		parent.children = append(parent.children, l)
	}
	if cfg.hasOrder {
		l.stackOrder = cfg.stackOrder
		t.host.SetStackOrder(handle, cfg.stackOrder)
	}

	t.nodes[name] = l
	return l, nil
}

// Get returns the named layer, or nil and false when it does not exist.
func (t *Tree) Get(name string) (*Layer, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	l, ok := t.nodes[name]
	return l, ok
}

// Find returns the named layer or an error wrapping ErrSurfaceNotFound.
func (t *Tree) Find(name string) (*Layer, error) {
	if l, ok := t.Get(name); ok {
		return l, nil
	}
	return nil, fmt.Errorf("layer %q: %w", name, domain.ErrSurfaceNotFound)
}

// Names returns the names of all live layers, sorted.
func (t *Tree) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.nodes))
	for name := range t.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of live layers.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}

// Destroy tears down the named layer: descendants first, then subscriptions,
// then the rendered container, then the registry entry. It reports whether
// the name was found.
func (t *Tree) Destroy(name string) bool {
	t.mu.RLock()
	l, ok := t.nodes[name]
	t.mu.RUnlock()
	if !ok {
		return false
	}
	t.destroyLayer(l)
	return true
}

func (t *Tree) destroyLayer(l *Layer) {
	for _, child := range l.snapshotChildren() {
		t.destroyLayer(child)
	}

	l.runCleanupTasks()
	l.clearSubscriptions()

	var parentHandle ports.Handle
	if l.parent != nil {
		parentHandle = l.parent.handle
	}
	t.host.RemoveChild(parentHandle, l.handle)

	t.mu.Lock()
	if l.parent != nil {
		l.parent.unlinkChild(l)
	}
	delete(t.nodes, l.name)
	t.mu.Unlock()
}

// Dispatch routes an input event to every delegated subscription whose layer
// contains the event origin and whose selector matches it. Layers are
// visited in name order; pairs in registration order.
func (t *Tree) Dispatch(ev domain.InputEvent) {
	t.mu.RLock()
	registered := t.delegates[ev.Type]
	names := make([]string, 0, len(registered))
	for name := range registered {
		names = append(names, name)
	}
	sort.Strings(names)
	targets := make([]*Layer, 0, len(names))
	for _, name := range names {
		targets = append(targets, registered[name])
	}
	t.mu.RUnlock()

	for _, l := range targets {
		l.dispatch(ev)
	}
}

// registerDelegate installs the underlying listener for (eventType, layer).
// Caller holds t.mu.
func (t *Tree) registerDelegate(eventType string, l *Layer) {
	byLayer, ok := t.delegates[eventType]
	if !ok {
		byLayer = make(map[string]*Layer)
		t.delegates[eventType] = byLayer
	}
	byLayer[l.name] = l
}

// unregisterDelegate removes the underlying listener. Caller holds t.mu.
func (t *Tree) unregisterDelegate(eventType string, l *Layer) {
	byLayer, ok := t.delegates[eventType]
	if !ok {
		return
	}
	delete(byLayer, l.name)
	if len(byLayer) == 0 {
		delete(t.delegates, eventType)
	}
}

// DelegateCount returns how many layers hold an underlying listener for the
// event type. Exposed for tests and introspection.
func (t *Tree) DelegateCount(eventType string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.delegates[eventType])
}
