package storm

import (
	"fmt"
	"time"
)

// Stage is one of the ordered intensity levels a storm can occupy.
// Progression is strictly increasing; a storm never regresses.
type Stage int

const (
	// StageUnspecified represents an invalid stage value.
	StageUnspecified Stage = iota
	// StageDepression is the initial stage of every spawned storm.
	StageDepression
	// StageTropicalStorm is the first developed stage.
	StageTropicalStorm
	// StageSevereTropicalStorm is the second developed stage.
	StageSevereTropicalStorm
	// StageTyphoon is the third developed stage.
	StageTyphoon
	// StageSuperTyphoon is the terminal stage.
	StageSuperTyphoon
)

func (s Stage) String() string {
	switch s {
	case StageDepression:
		return "Tropical Depression"
	case StageTropicalStorm:
		return "Tropical Storm"
	case StageSevereTropicalStorm:
		return "Severe Tropical Storm"
	case StageTyphoon:
		return "Typhoon"
	case StageSuperTyphoon:
		return "Super Typhoon"
	default:
		return "Unspecified"
	}
}

// ParseStage maps a persisted stage name back to its Stage value.
func ParseStage(name string) (Stage, error) {
	for s := StageDepression; s <= StageSuperTyphoon; s++ {
		if s.String() == name {
			return s, nil
		}
	}
	return StageUnspecified, fmt.Errorf("unknown storm stage %q", name)
}

// Terminal reports whether the stage has no further development stage.
func (s Stage) Terminal() bool {
	return s == StageSuperTyphoon
}

// Next returns the following stage. Calling Next on the terminal stage
// returns the terminal stage unchanged.
func (s Stage) Next() Stage {
	if s.Terminal() || s == StageUnspecified {
		return s
	}
	return s + 1
}

// Stats is the fixed stat tuple for one stage. Stats are a pure function of
// the stage and never drift independently.
type Stats struct {
	WindSpeed int // km/h
	Pressure  int // hPa
	Diameter  int // km
}

// rule holds the development parameters for one stage: the stat tuple a
// storm adopts at that stage, the probability of advancing past it, the
// reward range paid when the stage's own roll succeeds, and the window
// before the next check.
type rule struct {
	stats         Stats
	advanceChance float64
	rewardMin     int64
	rewardMax     int64
	checkMin      time.Duration
	checkMax      time.Duration
}

// stageRules drives the single development code path for every stage.
// Wind speed and diameter grow monotonically with stage, pressure drops,
// and reward variance widens.
var stageRules = map[Stage]rule{
	StageDepression: {
		stats:         Stats{WindSpeed: 50, Pressure: 1008, Diameter: 200},
		advanceChance: 0.5,
		rewardMin:     10, rewardMax: 50,
		checkMin: 20 * time.Minute, checkMax: 40 * time.Minute,
	},
	StageTropicalStorm: {
		stats:         Stats{WindSpeed: 80, Pressure: 1000, Diameter: 300},
		advanceChance: 0.5,
		rewardMin:     20, rewardMax: 80,
		checkMin: 20 * time.Minute, checkMax: 40 * time.Minute,
	},
	StageSevereTropicalStorm: {
		stats:         Stats{WindSpeed: 110, Pressure: 985, Diameter: 450},
		advanceChance: 0.45,
		rewardMin:     30, rewardMax: 120,
		checkMin: 20 * time.Minute, checkMax: 40 * time.Minute,
	},
	StageTyphoon: {
		stats:         Stats{WindSpeed: 150, Pressure: 960, Diameter: 600},
		advanceChance: 0.4,
		rewardMin:     50, rewardMax: 200,
		checkMin: 20 * time.Minute, checkMax: 40 * time.Minute,
	},
	StageSuperTyphoon: {
		stats:    Stats{WindSpeed: 195, Pressure: 915, Diameter: 800},
		checkMin: 20 * time.Minute, checkMax: 40 * time.Minute,
	},
}

// StageStats returns the fixed stat tuple for a stage.
func StageStats(s Stage) Stats {
	return stageRules[s].stats
}
