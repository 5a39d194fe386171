package gamification_test

import (
	"testing"

	"github.com/memegrid/memegrid/internal/gamification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAward(t *testing.T) {
	t.Parallel()

	cfg := gamification.DefaultConfig()

	tests := []struct {
		name     string
		action   gamification.Action
		expected int64
		wantErr  error
	}{
		{
			name:     "meme created awards 10",
			action:   gamification.ActionMemeCreated,
			expected: 10,
		},
		{
			name:     "meme liked awards 2",
			action:   gamification.ActionMemeLiked,
			expected: 2,
		},
		{
			name:     "comment created awards 3",
			action:   gamification.ActionCommentCreated,
			expected: 3,
		},
		{
			name:    "unknown action rejected",
			action:  gamification.Action("meme_shared"),
			wantErr: gamification.ErrUnknownAction,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			award, err := cfg.Award(tt.action)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, award)
		})
	}
}

func TestReversal(t *testing.T) {
	t.Parallel()

	t.Run("no clawback by default", func(t *testing.T) {
		t.Parallel()

		cfg := gamification.DefaultConfig()

		delta, err := cfg.Reversal(gamification.ActionMemeLiked)
		require.NoError(t, err)
		assert.Zero(t, delta)
	})

	t.Run("clawback negates the award", func(t *testing.T) {
		t.Parallel()

		cfg := gamification.DefaultConfig()
		cfg.Clawback = true

		delta, err := cfg.Reversal(gamification.ActionMemeCreated)
		require.NoError(t, err)
		assert.Equal(t, int64(-10), delta)
	})
}

func TestApply(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(12), gamification.Apply(10, 2))
	assert.Equal(t, int64(0), gamification.Apply(5, -10), "clawback clamps at zero")
	assert.Equal(t, int64(3), gamification.Apply(3, 0))
}

// The first scenario from the engagement flow: a fresh user uploads a meme,
// then someone likes it.
func TestUploadThenLikeScenario(t *testing.T) {
	t.Parallel()

	cfg := gamification.DefaultConfig()

	xp := int64(0)

	created, err := cfg.Award(gamification.ActionMemeCreated)
	require.NoError(t, err)
	xp = gamification.Apply(xp, created)
	assert.Equal(t, int64(10), xp)
	assert.Equal(t, 1, cfg.Level(xp))

	liked, err := cfg.Award(gamification.ActionMemeLiked)
	require.NoError(t, err)
	xp = gamification.Apply(xp, liked)
	assert.Equal(t, int64(12), xp)
	assert.Equal(t, 1, cfg.Level(xp))
}
