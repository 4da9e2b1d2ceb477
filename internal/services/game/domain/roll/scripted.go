package roll

import "time"

// Scripted is a Roller that replays pre-programmed outcomes in order. It
// exists so engine tests can force specific probabilistic branches.
type Scripted struct {
	Chances   []bool
	Values    []int64
	Durations []time.Duration
}

// Chance pops the next scripted outcome, or false when exhausted.
func (s *Scripted) Chance(float64) bool {
	if len(s.Chances) == 0 {
		return false
	}
	v := s.Chances[0]
	s.Chances = s.Chances[1:]
	return v
}

// Between pops the next scripted value clamped into [min, max], or min
// when exhausted.
func (s *Scripted) Between(min, max int64) int64 {
	if len(s.Values) == 0 {
		return min
	}
	v := s.Values[0]
	s.Values = s.Values[1:]
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Duration pops the next scripted duration clamped into [min, max], or min
// when exhausted.
func (s *Scripted) Duration(min, max time.Duration) time.Duration {
	if len(s.Durations) == 0 {
		return min
	}
	v := s.Durations[0]
	s.Durations = s.Durations[1:]
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
