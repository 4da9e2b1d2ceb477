// Package storm holds the storm entity, its stage progression table, and
// the probabilistic development engine that advances storms on each check.
package storm

import "time"

// Storm is the per-player evolving entity. A player owns at most one storm
// at a time; the storm is owned exclusively by its record and is never
// shared across players.
type Storm struct {
	// ID identifies this storm instance. Delayed dissipation events carry
	// the ID they were scheduled against so stale events can detect that
	// the storm is gone or replaced and no-op.
	ID        string
	Stage     Stage
	WindSpeed int
	Pressure  int
	Diameter  int
	// NextCheckAt is the deadline of the next development roll. Only the
	// tick loop writes it after spawn.
	NextCheckAt time.Time
	CreatedAt   time.Time
	LastCheckAt time.Time
}

// New creates a fresh depression-stage storm.
func New(id string, now, nextCheck time.Time) *Storm {
	stats := StageStats(StageDepression)
	return &Storm{
		ID:          id,
		Stage:       StageDepression,
		WindSpeed:   stats.WindSpeed,
		Pressure:    stats.Pressure,
		Diameter:    stats.Diameter,
		NextCheckAt: nextCheck,
		CreatedAt:   now,
		LastCheckAt: now,
	}
}

// Clone returns an independent copy of the storm.
func (s *Storm) Clone() *Storm {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

// applyStage moves the storm to the given stage and adopts its stat tuple.
func (s *Storm) applyStage(stage Stage) {
	stats := StageStats(stage)
	s.Stage = stage
	s.WindSpeed = stats.WindSpeed
	s.Pressure = stats.Pressure
	s.Diameter = stats.Diameter
}
