package ports

import (
	"context"

	"github.com/scenestack/scenestack/pkg/domain"
)

// HistoryStore persists the stream of completed state changes. The engine
// appends after every transition; tooling reads it back for inspection.
type HistoryStore interface {
	// Append records one state change.
	Append(ctx context.Context, rec domain.StateChange) error

	// List returns the most recent records, newest first. A limit of zero
	// or less returns everything.
	List(ctx context.Context, limit int) ([]domain.StateChange, error)

	// Clear discards all records.
	Clear(ctx context.Context) error
}
