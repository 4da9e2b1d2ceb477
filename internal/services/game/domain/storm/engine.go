package storm

import (
	"time"

	"github.com/habagat/typhoon.garden/internal/services/game/domain/roll"
)

// Timing and probability constants for storm development. These values are
// part of the game's behavioral contract.
const (
	// TerminalAge is how long a storm must have existed before the
	// terminal-stage landfall roll is evaluated.
	TerminalAge = 7 * 24 * time.Hour
	// LandfallChance is the probability a terminal-stage storm makes
	// landfall when evaluated.
	LandfallChance = 0.35

	// LandfallDissipationDelay is the wait between the landfall warning
	// and the dissipation that follows it.
	LandfallDissipationDelay = time.Minute
	// ColdWaterDelay is the wait between the weakening notice and the
	// cold-water warning on the no-landfall path.
	ColdWaterDelay = 5 * time.Minute
	// ColdWaterDissipationDelay is the wait between the weakening notice
	// and the final dissipation on the no-landfall path.
	ColdWaterDissipationDelay = 8 * time.Minute

	// WeakenedReward is credited when a terminal storm stays over the
	// ocean instead of making landfall.
	WeakenedReward = 90
	// LandfallDissipationReward is credited when a landfall dissipation
	// completes.
	LandfallDissipationReward = 200
	// ColdWaterDissipationReward is credited when an ocean dissipation
	// completes.
	ColdWaterDissipationReward = 150
)

// EventKind discriminates engine events.
type EventKind int

const (
	// EventDeveloped reports a successful advance to the next stage.
	EventDeveloped EventKind = iota + 1
	// EventFailed reports a failed development roll; the storm is removed.
	EventFailed
	// EventLandfallWarning announces that a terminal storm went inland.
	EventLandfallWarning
	// EventWeakened reports a terminal storm that stayed over the ocean.
	EventWeakened
	// EventColdWater warns that an ocean-bound storm reached cold water.
	EventColdWater
	// EventDissipated reports the end of a storm's life.
	EventDissipated
)

// Impact carries the randomly generated damage statistics attached to a
// landfall dissipation.
type Impact struct {
	DamagePesos int64
	Deaths      int64
	Injuries    int64
	Missing     int64
}

// Event is one observable outcome of an engine advance. Events with a zero
// Delay take effect immediately; delayed events must be scheduled against
// wall-clock deadlines and checked against the storm ID when they fire.
type Event struct {
	Kind   EventKind
	Stage  Stage
	Reward int64
	// Delay is the offset from the advance instant at which the event
	// takes effect. Zero means immediately.
	Delay time.Duration
	// Landfall is set on EventDissipated to distinguish the two
	// dissipation paths.
	Landfall bool
	Impact   *Impact
}

// Engine advances storms through their development rolls.
type Engine struct {
	roller roll.Roller
}

// NewEngine creates a storm engine drawing randomness from the roller.
func NewEngine(roller roll.Roller) *Engine {
	return &Engine{roller: roller}
}

// NextCheckDelay draws the wait before a storm's next development roll.
func (e *Engine) NextCheckDelay(stage Stage) time.Duration {
	r := stageRules[stage]
	return e.roller.Duration(r.checkMin, r.checkMax)
}

// Advance runs one development check. It must only be called when
// now >= storm.NextCheckAt. The storm is mutated in place for immediate
// outcomes; the caller applies record-level effects (balance credits,
// storm removal, cooldown reset) and schedules delayed events.
func (e *Engine) Advance(s *Storm, now time.Time) []Event {
	s.LastCheckAt = now

	if s.Stage.Terminal() {
		return e.advanceTerminal(s, now)
	}

	r := stageRules[s.Stage]
	if !e.roller.Chance(r.advanceChance) {
		// Unfavorable environment: the storm dissolves entirely.
		return []Event{{Kind: EventFailed, Stage: s.Stage}}
	}

	next := s.Stage.Next()
	s.applyStage(next)
	s.NextCheckAt = now.Add(e.NextCheckDelay(next))

	// The reward range belongs to the stage that was rolled, not the one
	// the storm just reached.
	reward := e.roller.Between(r.rewardMin, r.rewardMax)
	return []Event{{Kind: EventDeveloped, Stage: next, Reward: reward}}
}

// advanceTerminal evaluates the landfall roll for a terminal-stage storm.
// Young storms just reschedule their check. Once the roll happens, the
// dissipation sequence is emitted as delayed events and NextCheckAt is
// pushed past the longest sequence so the storm is not re-evaluated while
// it plays out; if the process restarts and the in-memory sequence is
// lost, the roll simply re-runs after that window.
func (e *Engine) advanceTerminal(s *Storm, now time.Time) []Event {
	if now.Sub(s.CreatedAt) < TerminalAge {
		s.NextCheckAt = now.Add(e.NextCheckDelay(s.Stage))
		return nil
	}

	s.NextCheckAt = now.Add(ColdWaterDissipationDelay + 2*time.Minute)

	if e.roller.Chance(LandfallChance) {
		impact := &Impact{
			DamagePesos: e.roller.Between(1000, 90000),
			Deaths:      e.roller.Between(1, 6000),
			Injuries:    e.roller.Between(1, 10000),
			Missing:     e.roller.Between(1, 9999999),
		}
		return []Event{
			{Kind: EventLandfallWarning, Stage: s.Stage},
			{
				Kind:     EventDissipated,
				Stage:    s.Stage,
				Reward:   LandfallDissipationReward,
				Delay:    LandfallDissipationDelay,
				Landfall: true,
				Impact:   impact,
			},
		}
	}

	return []Event{
		{Kind: EventWeakened, Stage: s.Stage, Reward: WeakenedReward},
		{Kind: EventColdWater, Stage: s.Stage, Delay: ColdWaterDelay},
		{
			Kind:   EventDissipated,
			Stage:  s.Stage,
			Reward: ColdWaterDissipationReward,
			Delay:  ColdWaterDissipationDelay,
		},
	}
}
