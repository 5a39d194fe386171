// Package gamification implements the experience, level, and rank rules
// shared by the API services and the rank worker. Everything in this package
// is pure computation; persistence lives in the database layer.
package gamification

import "fmt"

// Action identifies an engagement action that earns experience.
type Action string

const (
	// ActionMemeCreated is recorded when a user uploads a meme.
	ActionMemeCreated Action = "meme_created"
	// ActionMemeLiked is recorded when someone likes a meme. The award goes
	// to the meme's author, not the liker.
	ActionMemeLiked Action = "meme_liked"
	// ActionCommentCreated is recorded when a user comments on a meme.
	ActionCommentCreated Action = "comment_created"
)

// Config holds the tunable gamification rules. Loaded from the common config
// file so award sizes and level thresholds can change without a deploy.
type Config struct {
	MemeCreatedXP    int64
	MemeLikedXP      int64
	CommentCreatedXP int64
	// Clawback controls whether reversing an action (unlike, comment or meme
	// deletion) also reverses its award. Off by default: rewards for positive
	// engagement are kept even when the engagement is later withdrawn.
	Clawback         bool
	LevelBreakpoints []int64
}

// DefaultConfig returns the rules used when the config file leaves the
// gamification section empty.
func DefaultConfig() Config {
	return Config{
		MemeCreatedXP:    10,
		MemeLikedXP:      2,
		CommentCreatedXP: 3,
		Clawback:         false,
		LevelBreakpoints: DefaultLevelBreakpoints(),
	}
}

// Award returns the experience earned by the given action.
func (c *Config) Award(action Action) (int64, error) {
	switch action {
	case ActionMemeCreated:
		return c.MemeCreatedXP, nil
	case ActionMemeLiked:
		return c.MemeLikedXP, nil
	case ActionCommentCreated:
		return c.CommentCreatedXP, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

// Reversal returns the experience delta applied when the given action is
// undone. Zero unless clawback is enabled.
func (c *Config) Reversal(action Action) (int64, error) {
	if !c.Clawback {
		return 0, nil
	}

	award, err := c.Award(action)
	if err != nil {
		return 0, err
	}

	return -award, nil
}

// Apply adds a delta to a cumulative experience total, clamping at zero so a
// clawback can never drive a profile negative.
func Apply(current, delta int64) int64 {
	next := current + delta
	if next < 0 {
		return 0
	}

	return next
}
