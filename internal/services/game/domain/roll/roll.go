// Package roll abstracts the random draws made by the game engines.
//
// Engines depend on the Roller interface rather than on math/rand directly
// so tests can script exact outcomes for probabilistic branches.
package roll

import (
	"math/rand"
	"time"
)

// Roller produces the random draws used by storm development and tax rolls.
type Roller interface {
	// Chance reports true with probability p in [0, 1].
	Chance(p float64) bool
	// Between returns a uniform value in [min, max], inclusive on both ends.
	Between(min, max int64) int64
	// Duration returns a uniform duration in [min, max].
	Duration(min, max time.Duration) time.Duration
}

type randRoller struct {
	rng *rand.Rand
}

// New returns a Roller backed by a seeded pseudo-random source. Given the
// same seed, the draw sequence is deterministic.
func New(seed int64) Roller {
	return &randRoller{rng: rand.New(rand.NewSource(seed))}
}

func (r *randRoller) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.rng.Float64() < p
}

func (r *randRoller) Between(min, max int64) int64 {
	if max <= min {
		return min
	}
	return min + r.rng.Int63n(max-min+1)
}

func (r *randRoller) Duration(min, max time.Duration) time.Duration {
	return time.Duration(r.Between(int64(min), int64(max)))
}
