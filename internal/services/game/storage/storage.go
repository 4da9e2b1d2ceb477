// Package storage defines the persistence interface for the game core.
//
// Persistence is whole-state snapshotting: the full set of player records
// is read once at startup and written in full whenever any record changes.
// There are no partial writes.
package storage

import (
	"context"

	"github.com/habagat/typhoon.garden/internal/services/game/domain/player"
)

// SnapshotStore persists the full mapping from user id to player record.
type SnapshotStore interface {
	// Load reads the complete snapshot. A missing or empty store yields an
	// empty map, not an error.
	Load(ctx context.Context) (map[string]player.Record, error)
	// Save replaces the stored snapshot with the given records in a single
	// atomic write.
	Save(ctx context.Context, records map[string]player.Record) error
}
