package gamification_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/memegrid/memegrid/internal/gamification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignRanks(t *testing.T) {
	t.Parallel()

	a := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	b := uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	c := uuid.MustParse("00000000-0000-0000-0000-00000000000c")
	d := uuid.MustParse("00000000-0000-0000-0000-00000000000d")

	t.Run("orders by experience descending", func(t *testing.T) {
		t.Parallel()

		ranked := gamification.AssignRanks([]gamification.Standing{
			{ID: a, XP: 10},
			{ID: b, XP: 300},
			{ID: c, XP: 50},
		})

		require.Len(t, ranked, 3)
		assert.Equal(t, b, ranked[0].ID)
		assert.Equal(t, 1, ranked[0].Rank)
		assert.Equal(t, c, ranked[1].ID)
		assert.Equal(t, 2, ranked[1].Rank)
		assert.Equal(t, a, ranked[2].ID)
		assert.Equal(t, 3, ranked[2].Rank)
	})

	t.Run("ties share a dense rank", func(t *testing.T) {
		t.Parallel()

		ranked := gamification.AssignRanks([]gamification.Standing{
			{ID: d, XP: 100},
			{ID: b, XP: 100},
			{ID: a, XP: 200},
			{ID: c, XP: 50},
		})

		require.Len(t, ranked, 4)
		assert.Equal(t, 1, ranked[0].Rank)
		assert.Equal(t, 2, ranked[1].Rank)
		assert.Equal(t, 2, ranked[2].Rank)
		assert.Equal(t, 3, ranked[3].Rank, "rank after a tie is dense, not skipped")

		// Tied profiles are ordered deterministically by ID.
		assert.Equal(t, b, ranked[1].ID)
		assert.Equal(t, d, ranked[2].ID)
	})

	t.Run("idempotent over an unchanged snapshot", func(t *testing.T) {
		t.Parallel()

		standings := []gamification.Standing{
			{ID: a, XP: 70},
			{ID: b, XP: 70},
			{ID: c, XP: 20},
			{ID: d, XP: 90},
		}

		first := gamification.AssignRanks(standings)
		second := gamification.AssignRanks(standings)
		assert.Equal(t, first, second)
	})

	t.Run("does not mutate its input", func(t *testing.T) {
		t.Parallel()

		standings := []gamification.Standing{
			{ID: a, XP: 1},
			{ID: b, XP: 2},
		}

		gamification.AssignRanks(standings)
		assert.Equal(t, a, standings[0].ID)
	})

	t.Run("empty snapshot", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, gamification.AssignRanks(nil))
	})
}
