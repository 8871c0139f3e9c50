// Package memory provides in-process adapters: a surface host that records
// container state without rendering anything, and a history store backed by
// a slice. Both are used by tests and the demo CLI.
package memory

import (
	"sync"

	"github.com/scenestack/scenestack/pkg/ports"
)

// Container is the host-side record of one created surface.
type Container struct {
	ID         string
	Parent     *Container
	Visible    bool
	StackOrder int
	Content    any

	mu       sync.Mutex
	children []*Container
}

// Children returns a copy of the container's current children.
func (c *Container) Children() []*Container {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Container, len(c.children))
	copy(out, c.children)
	return out
}

// Host implements ports.SurfaceHost by bookkeeping containers in memory.
type Host struct {
	mu         sync.Mutex
	containers map[string]*Container
}

var _ ports.SurfaceHost = (*Host)(nil)

// NewHost creates an empty host.
func NewHost() *Host {
	return &Host{containers: make(map[string]*Container)}
}

// CreateContainer allocates a top-level container.
func (h *Host) CreateContainer(id string) (ports.Handle, error) {
	c := &Container{ID: id, Visible: true}
	h.mu.Lock()
	h.containers[id] = c
	h.mu.Unlock()
	return c, nil
}

// AppendChild re-parents child under parent. A nil parent keeps the child at
// the rendering root.
func (h *Host) AppendChild(parent, child ports.Handle) {
	cc := child.(*Container)
	if parent == nil {
		return
	}
	pc := parent.(*Container)
	pc.mu.Lock()
	pc.children = append(pc.children, cc)
	pc.mu.Unlock()
	cc.Parent = pc
}

// RemoveChild detaches child and forgets it.
func (h *Host) RemoveChild(parent, child ports.Handle) {
	cc := child.(*Container)
	if parent != nil {
		pc := parent.(*Container)
		pc.mu.Lock()
		for i, c := range pc.children {
			if c == cc {
				pc.children = append(pc.children[:i:i], pc.children[i+1:]...)
				break
			}
		}
		pc.mu.Unlock()
	}
	h.mu.Lock()
	delete(h.containers, cc.ID)
	h.mu.Unlock()
}

// SetVisible toggles the container.
func (h *Host) SetVisible(handle ports.Handle, visible bool) {
	handle.(*Container).Visible = visible
}

// SetStackOrder records the stacking hint.
func (h *Host) SetStackOrder(handle ports.Handle, order int) {
	handle.(*Container).StackOrder = order
}

// SetContent replaces rendered content.
func (h *Host) SetContent(handle ports.Handle, content any) {
	handle.(*Container).Content = content
}

// Container looks up a live container by id.
func (h *Host) Container(id string) (*Container, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.containers[id]
	return c, ok
}

// Len returns the number of live containers.
func (h *Host) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.containers)
}
