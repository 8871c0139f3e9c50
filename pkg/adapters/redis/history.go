// Package redis provides a Redis-backed transition history store.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/scenestack/scenestack/pkg/domain"
)

// History implements ports.HistoryStore on a Redis list. Records are pushed
// to the head, so LRANGE returns newest first without any sorting.
type History struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	cap    int64
}

type Option func(*History)

// WithTTL sets the expiration for the history key, refreshed on every
// append.
func WithTTL(ttl time.Duration) Option {
	return func(h *History) {
		h.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(h *History) {
		h.prefix = prefix
	}
}

// WithCapacity trims the list to the newest n records on every append.
func WithCapacity(n int64) Option {
	return func(h *History) {
		h.cap = n
	}
}

// New creates a new Redis history store with options.
func New(address, password string, db int, opts ...Option) *History {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis history store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *History {
	h := &History{
		client: client,
		prefix: "scenestack:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

func (h *History) key() string {
	return h.prefix + "history"
}

// Append records one state change at the head of the list.
func (h *History) Append(ctx context.Context, rec domain.StateChange) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal state change: %w", err)
	}

	pipe := h.client.Pipeline()
	pipe.LPush(ctx, h.key(), data)
	if h.cap > 0 {
		pipe.LTrim(ctx, h.key(), 0, h.cap-1)
	}
	if h.ttl > 0 {
		pipe.Expire(ctx, h.key(), h.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append to redis: %w", err)
	}
	return nil
}

// List returns recorded changes, newest first. A limit of zero or less
// returns everything.
func (h *History) List(ctx context.Context, limit int) ([]domain.StateChange, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	vals, err := h.client.LRange(ctx, h.key(), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read from redis: %w", err)
	}

	out := make([]domain.StateChange, 0, len(vals))
	for _, val := range vals {
		var rec domain.StateChange
		if err := json.Unmarshal([]byte(val), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal state change: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Clear removes all recorded changes.
func (h *History) Clear(ctx context.Context) error {
	return h.client.Del(ctx, h.key()).Err()
}
