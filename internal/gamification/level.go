package gamification

import "errors"

var (
	// ErrUnknownAction is returned for an action kind outside the award table.
	ErrUnknownAction = errors.New("unknown gamification action")
	// ErrInvalidBreakpoints is returned when a breakpoint table is not
	// strictly ascending.
	ErrInvalidBreakpoints = errors.New("level breakpoints must be strictly ascending")
)

// DefaultLevelBreakpoints returns the XP thresholds used when none are
// configured. Breakpoint i is the minimum experience for level i+2; a profile
// below the first breakpoint is level 1.
func DefaultLevelBreakpoints() []int64 {
	return []int64{100, 250, 500, 1000, 2000, 4000, 8000, 16000, 32000}
}

// ValidateBreakpoints checks that a configured breakpoint table is usable.
func ValidateBreakpoints(breakpoints []int64) error {
	for i, bp := range breakpoints {
		if bp <= 0 {
			return ErrInvalidBreakpoints
		}

		if i > 0 && bp <= breakpoints[i-1] {
			return ErrInvalidBreakpoints
		}
	}

	return nil
}

// Level maps a cumulative experience total to a level. The function is total
// and monotonic: the same experience always yields the same level, more
// experience never yields a lower one, and Level(0) is 1.
func (c *Config) Level(xp int64) int {
	if xp < 0 {
		xp = 0
	}

	level := 1
	for _, bp := range c.LevelBreakpoints {
		if xp < bp {
			break
		}

		level++
	}

	return level
}
