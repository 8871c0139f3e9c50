package memory

import (
	"context"
	"sync"

	"github.com/scenestack/scenestack/pkg/domain"
	"github.com/scenestack/scenestack/pkg/ports"
)

// History implements ports.HistoryStore with a bounded in-memory slice.
type History struct {
	mu      sync.Mutex
	records []domain.StateChange
	cap     int
}

var _ ports.HistoryStore = (*History)(nil)

// HistoryOption configures a History store.
type HistoryOption func(*History)

// WithCapacity bounds the store; the oldest records are dropped once the
// bound is exceeded. Zero means unbounded.
func WithCapacity(n int) HistoryOption {
	return func(h *History) {
		h.cap = n
	}
}

// NewHistory creates an empty history store.
func NewHistory(opts ...HistoryOption) *History {
	h := &History{}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Append records one state change.
func (h *History) Append(_ context.Context, rec domain.StateChange) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, rec)
	if h.cap > 0 && len(h.records) > h.cap {
		h.records = h.records[len(h.records)-h.cap:]
	}
	return nil
}

// List returns the most recent records, newest first.
func (h *History) List(_ context.Context, limit int) ([]domain.StateChange, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.StateChange, 0, n)
	for i := len(h.records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, h.records[i])
	}
	return out, nil
}

// Clear discards all records.
func (h *History) Clear(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
	return nil
}
