// Package memory provides an in-memory snapshot store for tests.
package memory

import (
	"context"
	"sync"

	"github.com/habagat/typhoon.garden/internal/services/game/domain/player"
)

// Store keeps the snapshot in process memory. SaveErr, when set, is
// returned by Save so persistence failures can be exercised in tests.
type Store struct {
	mu      sync.Mutex
	records map[string]player.Record

	SaveErr error
	// Saves counts successful Save calls.
	Saves int
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{records: make(map[string]player.Record)}
}

// Load returns a copy of the stored snapshot.
func (s *Store) Load(ctx context.Context) (map[string]player.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]player.Record, len(s.records))
	for id, rec := range s.records {
		out[id] = rec.Clone()
	}
	return out, nil
}

// Save replaces the stored snapshot with a copy of the given records.
func (s *Store) Save(ctx context.Context, records map[string]player.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}

	out := make(map[string]player.Record, len(records))
	for id, rec := range records {
		out[id] = rec.Clone()
	}
	s.records = out
	s.Saves++
	return nil
}
