// Package app composes the game core: the synchronous command surface, the
// tick pass that advances time-based state, and snapshot persistence.
package app

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	apperrors "github.com/habagat/typhoon.garden/internal/platform/errors"
	"github.com/habagat/typhoon.garden/internal/platform/id"
	"github.com/habagat/typhoon.garden/internal/platform/timeouts"
	"github.com/habagat/typhoon.garden/internal/services/game/domain/player"
	"github.com/habagat/typhoon.garden/internal/services/game/domain/storm"
	"github.com/habagat/typhoon.garden/internal/services/game/domain/tax"
	"github.com/habagat/typhoon.garden/internal/services/game/storage"
)

// SpawnCooldown is the minimum wait between a storm's end (spawn or
// dissolution) and the next allowed spawn. The boundary is inclusive:
// spawning exactly at cooldown expiry succeeds.
const SpawnCooldown = 50 * time.Hour

var (
	// ErrNoStorm indicates the player has no active storm.
	ErrNoStorm = apperrors.New(apperrors.CodeStormNotFound, "no active storm")
	// ErrStormActive indicates the player already has a live storm.
	ErrStormActive = apperrors.New(apperrors.CodeStormAlreadyActive, "a storm is already active")
	// ErrSpawnCooldown indicates the re-spawn lockout has not elapsed.
	ErrSpawnCooldown = apperrors.New(apperrors.CodeStormSpawnCooldown, "storm spawn cooldown active")
	// ErrNoTaxScheduled indicates no tax due time is armed.
	ErrNoTaxScheduled = apperrors.New(apperrors.CodeTaxNotScheduled, "no tax scheduled")
)

// Service owns the in-memory player state. Commands and the tick pass
// mutate records under one lock, so each record update runs start to
// finish without interleaving.
type Service struct {
	mu      sync.Mutex
	records map[string]*player.Record
	pending []pendingEvent
	// dirty is set when in-memory state diverges from the last persisted
	// snapshot; it stays set across failed saves so the next tick retries.
	dirty bool

	store       storage.SnapshotStore
	messenger   DirectMessenger
	broadcaster Broadcaster
	storms      *storm.Engine
	taxes       *tax.Engine

	clock func() time.Time
	newID func() (string, error)
	logf  func(format string, args ...any)
}

// New creates a game service. Load must be called before the service
// handles commands or ticks.
func New(store storage.SnapshotStore, messenger DirectMessenger, broadcaster Broadcaster, storms *storm.Engine, taxes *tax.Engine) *Service {
	return &Service{
		records:     make(map[string]*player.Record),
		store:       store,
		messenger:   messenger,
		broadcaster: broadcaster,
		storms:      storms,
		taxes:       taxes,
		clock:       func() time.Time { return time.Now().UTC() },
		newID:       id.NewID,
		logf:        log.Printf,
	}
}

// Load reads the persisted snapshot into memory, replacing current state.
func (s *Service) Load(ctx context.Context) error {
	records, err := s.store.Load(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeSnapshotFailed, "load snapshot", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*player.Record, len(records))
	for userID, rec := range records {
		clone := rec.Clone()
		s.records[userID] = &clone
	}
	s.dirty = false
	return nil
}

// SpawnStorm creates a fresh depression-stage storm for the player and
// arms the tax due time. It fails when the spawn cooldown is still active
// or a storm already exists.
func (s *Service) SpawnStorm(ctx context.Context, userID, channelRef string) (*storm.Storm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	rec := s.recordLocked(userID)

	if !rec.SpawnCooldownAt.IsZero() {
		if elapsed := now.Sub(rec.SpawnCooldownAt); elapsed < SpawnCooldown {
			remaining := SpawnCooldown - elapsed
			return nil, apperrors.WithMetadata(
				apperrors.CodeStormSpawnCooldown,
				"storm spawn cooldown active",
				map[string]string{"remaining": remaining.String()},
			)
		}
	}
	if rec.Storm != nil {
		return nil, ErrStormActive
	}

	stormID, err := s.newID()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnknown, "generate storm id", err)
	}

	created := storm.New(stormID, now, now.Add(s.storms.NextCheckDelay(storm.StageDepression)))
	rec.Storm = created
	rec.SpawnCooldownAt = now
	rec.TaxDueAt = now.Add(tax.DueDelay)
	rec.ChannelRef = channelRef
	s.dirty = true

	if err := s.persistLocked(ctx); err != nil {
		// The spawn is applied in memory; the snapshot is stale until the
		// next successful tick persist.
		return created.Clone(), err
	}
	return created.Clone(), nil
}

// StormStatus returns a snapshot of the player's live storm.
func (s *Service) StormStatus(ctx context.Context, userID string) (*storm.Storm, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok || rec.Storm == nil {
		return nil, ErrNoStorm
	}
	return rec.Storm.Clone(), nil
}

// Balance returns the player's current balance, creating a zero-balance
// record on first interaction.
func (s *Service) Balance(ctx context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		rec = s.recordLocked(userID)
		s.dirty = true
		if err := s.persistLocked(ctx); err != nil {
			return rec.Balance, err
		}
	}
	return rec.Balance, nil
}

// TaxStatus returns the time remaining until the player's tax falls due,
// or zero when it is already due.
func (s *Service) TaxStatus(ctx context.Context, userID string) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok || rec.TaxDueAt.IsZero() {
		return 0, ErrNoTaxScheduled
	}
	remaining := rec.TaxDueAt.Sub(s.clock())
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// recordLocked returns the player's record, creating it lazily. Callers
// must hold the lock.
func (s *Service) recordLocked(userID string) *player.Record {
	rec, ok := s.records[userID]
	if !ok {
		rec = player.New(userID)
		s.records[userID] = rec
	}
	return rec
}

// persistLocked writes the full snapshot, bounded by the snapshot write
// timeout. Callers must hold the lock. On failure the dirty flag stays set
// so the next tick retries.
func (s *Service) persistLocked(ctx context.Context) error {
	snapshot := make(map[string]player.Record, len(s.records))
	for userID, rec := range s.records {
		snapshot[userID] = rec.Clone()
	}
	saveCtx, cancel := context.WithTimeout(ctx, timeouts.SnapshotWrite)
	defer cancel()
	if err := s.store.Save(saveCtx, snapshot); err != nil {
		return apperrors.Wrap(apperrors.CodeSnapshotFailed, "save snapshot", err)
	}
	s.dirty = false
	return nil
}

// userIDsLocked returns all user ids in a stable order.
func (s *Service) userIDsLocked() []string {
	ids := make([]string, 0, len(s.records))
	for userID := range s.records {
		ids = append(ids, userID)
	}
	sort.Strings(ids)
	return ids
}
