package service

import (
	"context"
	"time"

	"github.com/memegrid/memegrid/internal/database/models"
	"github.com/memegrid/memegrid/internal/database/types"
	"github.com/memegrid/memegrid/internal/gamification"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

const (
	// DefaultLeaderboardSize is how many profiles the leaderboard read path
	// returns.
	DefaultLeaderboardSize = 50

	// readStaleness is how old the rank snapshot may get before a leaderboard
	// read recomputes it inline. Kept well above the worker interval so the
	// read path only steps in when the worker is down.
	readStaleness = 2 * time.Minute
)

// Leaderboard is a point-in-time view of the top profiles.
type Leaderboard struct {
	Profiles    []*types.Profile
	LastRefresh time.Time
}

// LeaderboardService owns rank recomputation and the leaderboard read path.
type LeaderboardService struct {
	profile *models.ProfileModel
	rank    *models.RankModel
	logger  *zap.Logger
}

// NewLeaderboard creates a new leaderboard service.
func NewLeaderboard(
	profile *models.ProfileModel, rank *models.RankModel, logger *zap.Logger,
) *LeaderboardService {
	return &LeaderboardService{
		profile: profile,
		rank:    rank,
		logger:  logger.Named("leaderboard_service"),
	}
}

// RefreshRanks recomputes dense ranks for every profile if the snapshot is
// older than staleDuration. The entire recomputation runs in one transaction
// so ranks always reflect a consistent experience snapshot.
func (s *LeaderboardService) RefreshRanks(ctx context.Context, staleDuration time.Duration) error {
	return s.rank.RefreshIfStale(ctx, models.LeaderboardSnapshot, staleDuration,
		func(ctx context.Context, tx bun.Tx) error {
			profiles, err := s.profile.GetStandings(ctx, tx)
			if err != nil {
				return err
			}

			standings := make([]gamification.Standing, len(profiles))
			for i, p := range profiles {
				standings[i] = gamification.Standing{ID: p.ID, XP: p.XP}
			}

			ranked := gamification.AssignRanks(standings)

			updates := make([]types.RankUpdate, len(ranked))
			for i, r := range ranked {
				updates[i] = types.RankUpdate{ID: r.ID, Rank: r.Rank}
			}

			if err := s.profile.UpdateRanks(ctx, tx, updates); err != nil {
				return err
			}

			s.logger.Debug("Recomputed leaderboard ranks", zap.Int("profiles", len(ranked)))

			return nil
		})
}

// GetLeaderboard returns the current top profiles along with the time the
// rank snapshot was last recomputed. A stale snapshot is still served; the
// ranks it carries remain internally consistent.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, limit int) (*Leaderboard, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}

	// Best effort. A failed refresh still leaves a consistent older snapshot.
	if err := s.RefreshRanks(ctx, readStaleness); err != nil {
		s.logger.Warn("Failed to refresh stale ranks on read", zap.Error(err))
	}

	profiles, err := s.profile.TopByExperience(ctx, limit)
	if err != nil {
		return nil, err
	}

	lastRefresh, err := s.rank.GetLastRefresh(ctx, models.LeaderboardSnapshot)
	if err != nil {
		s.logger.Warn("Failed to get rank refresh time", zap.Error(err))
	}

	return &Leaderboard{
		Profiles:    profiles,
		LastRefresh: lastRefresh,
	}, nil
}
