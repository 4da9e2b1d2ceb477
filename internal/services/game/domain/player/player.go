// Package player defines the per-user game record and its invariants.
package player

import (
	"time"

	apperrors "github.com/habagat/typhoon.garden/internal/platform/errors"
	"github.com/habagat/typhoon.garden/internal/services/game/domain/storm"
)

var (
	// ErrEmptyUserID indicates a record without a user id.
	ErrEmptyUserID = apperrors.New(apperrors.CodePlayerEmptyID, "user id is required")
	// ErrNegativeBalance indicates a record whose balance went below zero.
	ErrNegativeBalance = apperrors.New(apperrors.CodePlayerNegativeBalance, "balance must not be negative")
	// ErrLiabilityWithoutNotice indicates a pending liability with no
	// notification timestamp, or the reverse.
	ErrLiabilityWithoutNotice = apperrors.New(apperrors.CodePlayerLiabilityOrphan, "tax liability and notice must be set together")
)

// Record holds all persistent game state for a single player, keyed by the
// platform-assigned user id. Records are created lazily on first
// interaction with a zero balance, no storm, and no tax scheduled.
type Record struct {
	UserID  string
	Balance int64
	// Storm is the player's live storm; nil when no storm is active.
	Storm *storm.Storm
	// SpawnCooldownAt marks when the last storm was spawned or dissolved.
	// It is a single moving timestamp: re-spawn eligibility is always
	// measured from it. Zero means the player has never spawned.
	SpawnCooldownAt time.Time
	// TaxDueAt is when the next liability is generated. Zero means no tax
	// is scheduled; only a spawn re-arms it.
	TaxDueAt time.Time
	// TaxLiability and TaxNotifiedAt are set and cleared together.
	TaxLiability  int64
	TaxNotifiedAt time.Time
	// ChannelRef is the opaque delivery reference for storm messages. The
	// core only stores it and passes it through.
	ChannelRef string
}

// New creates a zero-state record for a user.
func New(userID string) *Record {
	return &Record{UserID: userID}
}

// Clone returns an independent deep copy of the record.
func (r *Record) Clone() Record {
	clone := *r
	clone.Storm = r.Storm.Clone()
	return clone
}

// Credit adds a non-negative amount to the balance.
func (r *Record) Credit(amount int64) {
	if amount <= 0 {
		return
	}
	r.Balance += amount
}

// LiabilityPending reports whether a tax liability awaits payment.
func (r *Record) LiabilityPending() bool {
	return !r.TaxNotifiedAt.IsZero()
}

// ClearStorm removes the live storm and restarts the spawn cooldown from
// the dissolution instant.
func (r *Record) ClearStorm(now time.Time) {
	r.Storm = nil
	r.SpawnCooldownAt = now
}

// Validate checks the record's structural invariants.
func (r *Record) Validate() error {
	if r.UserID == "" {
		return ErrEmptyUserID
	}
	if r.Balance < 0 {
		return ErrNegativeBalance
	}
	if (r.TaxLiability > 0) != r.LiabilityPending() {
		return ErrLiabilityWithoutNotice
	}
	return nil
}
