package curriculum

import "fmt"

// Scale describes the grading scale in use. Best and Worst are the bounds of
// admissible grades; Best may be numerically below Worst (German 1.0..5.0) or
// above it (percentage 100..0), so comparisons go through BetterOrEqual
// instead of raw operators.
type Scale struct {
	Best  float64
	Worst float64
}

// DefaultScale is the German university scale: 1.0 is the best grade, 5.0
// the worst admissible value.
func DefaultScale() Scale {
	return Scale{Best: 1.0, Worst: 5.0}
}

// Validate rejects degenerate scales.
func (s Scale) Validate() error {
	if s.Best == s.Worst {
		return fmt.Errorf("scale: best and worst bound must differ (both %.2f)", s.Best)
	}
	return nil
}

// Contains reports whether g lies within the scale bounds.
func (s Scale) Contains(g float64) bool {
	lo, hi := s.Best, s.Worst
	if lo > hi {
		lo, hi = hi, lo
	}
	return g >= lo && g <= hi
}

// BetterOrEqual reports whether grade a is at least as good as grade b on
// this scale.
func (s Scale) BetterOrEqual(a, b float64) bool {
	if s.Best < s.Worst {
		return a <= b
	}
	return a >= b
}
