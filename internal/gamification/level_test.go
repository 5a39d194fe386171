package gamification_test

import (
	"testing"

	"github.com/memegrid/memegrid/internal/gamification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	t.Parallel()

	cfg := gamification.DefaultConfig()

	tests := []struct {
		name     string
		xp       int64
		expected int
	}{
		{name: "zero experience is the minimum level", xp: 0, expected: 1},
		{name: "just below first breakpoint", xp: 99, expected: 1},
		{name: "exactly at first breakpoint", xp: 100, expected: 2},
		{name: "between breakpoints", xp: 300, expected: 3},
		{name: "beyond the table", xp: 1_000_000, expected: 10},
		{name: "negative clamps to zero", xp: -5, expected: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, cfg.Level(tt.xp))
		})
	}
}

func TestLevelMonotonic(t *testing.T) {
	t.Parallel()

	cfg := gamification.DefaultConfig()

	prev := cfg.Level(0)
	for xp := int64(1); xp <= 50_000; xp += 17 {
		level := cfg.Level(xp)
		require.GreaterOrEqual(t, level, prev, "level dropped at xp=%d", xp)
		prev = level
	}
}

func TestValidateBreakpoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		breakpoints []int64
		wantErr     bool
	}{
		{name: "default table", breakpoints: gamification.DefaultLevelBreakpoints()},
		{name: "empty table is a single level", breakpoints: nil},
		{name: "not ascending", breakpoints: []int64{100, 100, 200}, wantErr: true},
		{name: "non-positive threshold", breakpoints: []int64{0, 50}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := gamification.ValidateBreakpoints(tt.breakpoints)
			if tt.wantErr {
				require.ErrorIs(t, err, gamification.ErrInvalidBreakpoints)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
