// Package repository defines the leaderboard store interface and its SQL implementation.
package repository

import (
	"context"

	"github.com/okian/runboard/internal/domain/types"
)

// Store provides durable persistence and ordered retrieval of leaderboard entries.
//
// Ordering for every read: time ASC, then items ASC. Entries equal on both
// keys have no defined relative order.
type Store interface {
	// Initialize creates the leaderboard table if missing and seeds it when
	// empty. Safe to call on every start.
	Initialize(ctx context.Context) error

	// AddEntry inserts one entry. The ID on e is ignored; the store assigns one.
	AddEntry(ctx context.Context, e types.Entry) error

	// GetEntries returns at most page.Limit entries after skipping page.Offset.
	// Returns an empty slice, never an error, when nothing matches.
	GetEntries(ctx context.Context, page types.Page) ([]types.Entry, error)

	// GetAllEntries returns every entry matching f.
	GetAllEntries(ctx context.Context, f types.Filter) ([]types.Entry, error)

	// Count returns the number of entries matching f.
	Count(ctx context.Context, f types.Filter) (int64, error)

	// Ping checks the connection to the backing database.
	Ping(ctx context.Context) error

	// Close releases the database handle.
	Close() error
}
