// Package tax implements the recurring tax liability lifecycle: liability
// generation when a due time is reached and the escalation penalty when a
// notice goes unanswered.
package tax

import (
	"time"

	"github.com/habagat/typhoon.garden/internal/services/game/domain/player"
	"github.com/habagat/typhoon.garden/internal/services/game/domain/roll"
)

// Timing and amount constants for the tax lifecycle.
const (
	// DueDelay is how long after a spawn the tax falls due. Only the
	// spawn operation arms TaxDueAt; the engine never re-arms it.
	DueDelay = 6 * time.Hour
	// EscalationAfter is how long a notified liability may stay unpaid
	// before the penalty lands.
	EscalationAfter = 12 * time.Hour

	// LiabilityMin and LiabilityMax bound the drawn liability amount.
	LiabilityMin = 30
	LiabilityMax = 500
)

// Notice is the direct message emitted when a liability is generated.
type Notice struct {
	UserID string
	Amount int64
}

// Engine advances the tax state of player records.
type Engine struct {
	roller roll.Roller
}

// NewEngine creates a tax engine drawing randomness from the roller.
func NewEngine(roller roll.Roller) *Engine {
	return &Engine{roller: roller}
}

// Advance runs the escalation check followed by the notification check for
// one record. It returns a notice when a new liability was generated and
// reports whether the record changed.
func (e *Engine) Advance(rec *player.Record, now time.Time) (*Notice, bool) {
	changed := false

	// Escalation: an ignored notice zeroes the balance and clears the
	// liability. No further message is sent; the next cycle needs a new
	// spawn to arm TaxDueAt.
	if rec.LiabilityPending() && now.Sub(rec.TaxNotifiedAt) >= EscalationAfter {
		rec.Balance = 0
		rec.TaxLiability = 0
		rec.TaxNotifiedAt = time.Time{}
		changed = true
	}

	// Notification: a due time that has arrived with nothing pending
	// generates a fresh liability. The due time is consumed; only a spawn
	// sets a new one.
	if !rec.TaxDueAt.IsZero() && !now.Before(rec.TaxDueAt) && !rec.LiabilityPending() {
		amount := e.roller.Between(LiabilityMin, LiabilityMax)
		rec.TaxLiability = amount
		rec.TaxNotifiedAt = now
		rec.TaxDueAt = time.Time{}
		return &Notice{UserID: rec.UserID, Amount: amount}, true
	}

	return nil, changed
}
