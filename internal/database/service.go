package database

import (
	"github.com/memegrid/memegrid/internal/database/service"
	"github.com/memegrid/memegrid/internal/gamification"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Service provides access to all business logic services.
type Service struct {
	gamification *service.GamificationService
	meme         *service.MemeService
	engagement   *service.EngagementService
	feed         *service.FeedService
	leaderboard  *service.LeaderboardService
	profile      *service.ProfileService
}

// NewService creates a new service instance with all services.
func NewService(db *bun.DB, repo *Repository, rules gamification.Config, logger *zap.Logger) *Service {
	gam := service.NewGamification(rules, logger)

	return &Service{
		gamification: gam,
		meme:         service.NewMeme(db, gam, logger),
		engagement:   service.NewEngagement(db, gam, repo.Like(), repo.Comment(), nil, logger),
		feed:         service.NewFeed(repo.Meme(), service.DefaultFeedPageSize, logger),
		leaderboard:  service.NewLeaderboard(repo.Profile(), repo.Rank(), logger),
		profile:      service.NewProfile(repo.Profile(), repo.Meme(), logger),
	}
}

// SetPublisher wires the realtime change publisher into the services that
// emit change events. Call before serving traffic; events are skipped while
// no publisher is set.
func (s *Service) SetPublisher(p service.ChangePublisher) {
	s.engagement.SetPublisher(p)
}

// SetFeedPageSize overrides the default feed page size from configuration.
func (s *Service) SetFeedPageSize(pageSize int) {
	s.feed.SetPageSize(pageSize)
}

// Gamification returns the gamification service.
func (s *Service) Gamification() *service.GamificationService {
	return s.gamification
}

// Meme returns the meme service.
func (s *Service) Meme() *service.MemeService {
	return s.meme
}

// Engagement returns the engagement service.
func (s *Service) Engagement() *service.EngagementService {
	return s.engagement
}

// Feed returns the feed service.
func (s *Service) Feed() *service.FeedService {
	return s.feed
}

// Leaderboard returns the leaderboard service.
func (s *Service) Leaderboard() *service.LeaderboardService {
	return s.leaderboard
}

// Profile returns the profile service.
func (s *Service) Profile() *service.ProfileService {
	return s.profile
}
