package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/memegrid/memegrid/internal/database/models"
	"github.com/memegrid/memegrid/internal/database/types"
	"go.uber.org/zap"
)

// DefaultFeedPageSize is used when the API config leaves the page size unset.
const DefaultFeedPageSize = 10

// FeedService assembles meme listings for the home feed and profile pages.
type FeedService struct {
	meme     *models.MemeModel
	pageSize int
	logger   *zap.Logger
}

// NewFeed creates a new feed service.
func NewFeed(meme *models.MemeModel, pageSize int, logger *zap.Logger) *FeedService {
	if pageSize <= 0 {
		pageSize = DefaultFeedPageSize
	}

	return &FeedService{
		meme:     meme,
		pageSize: pageSize,
		logger:   logger.Named("feed_service"),
	}
}

// PageSize returns the configured feed page size.
func (s *FeedService) PageSize() int {
	return s.pageSize
}

// SetPageSize overrides the page size. Call before serving traffic.
func (s *FeedService) SetPageSize(pageSize int) {
	if pageSize > 0 {
		s.pageSize = pageSize
	}
}

// GetFeed returns one zero-based page of the home feed plus whether more
// pages exist.
func (s *FeedService) GetFeed(
	ctx context.Context, viewerID uuid.UUID, page int,
) ([]*types.Meme, bool, error) {
	if page < 0 {
		page = 0
	}

	// Fetch one extra row to learn whether another page exists.
	memes, err := s.meme.GetFeedPage(ctx, viewerID, page*s.pageSize, s.pageSize+1)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(memes) > s.pageSize
	if hasMore {
		memes = memes[:s.pageSize]
	}

	return memes, hasMore, nil
}

// GetUserMemes returns every meme uploaded by userID, newest first.
func (s *FeedService) GetUserMemes(
	ctx context.Context, userID, viewerID uuid.UUID,
) ([]*types.Meme, error) {
	return s.meme.GetUserMemes(ctx, userID, viewerID)
}
