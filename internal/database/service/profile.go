package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/memegrid/memegrid/internal/database/models"
	"github.com/memegrid/memegrid/internal/database/types"
	"go.uber.org/zap"
)

// ProfileService handles profile reads and the self-service update path.
type ProfileService struct {
	profile *models.ProfileModel
	meme    *models.MemeModel
	logger  *zap.Logger
}

// NewProfile creates a new profile service.
func NewProfile(profile *models.ProfileModel, meme *models.MemeModel, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		profile: profile,
		meme:    meme,
		logger:  logger.Named("profile_service"),
	}
}

// GetProfile retrieves a profile by ID.
func (s *ProfileService) GetProfile(ctx context.Context, id uuid.UUID) (*types.Profile, error) {
	return s.profile.GetProfile(ctx, id)
}

// EnsureProfile creates the profile row for an authenticated identity on
// first sight and returns the stored profile either way.
func (s *ProfileService) EnsureProfile(ctx context.Context, id uuid.UUID, username string) (*types.Profile, error) {
	profile, err := s.profile.EnsureProfile(ctx, id, username)
	if err != nil {
		return nil, err
	}

	if profile.Username != username {
		s.logger.Debug("Profile already existed with a different username",
			zap.String("profile_id", id.String()))
	}

	return profile, nil
}

// UpdateProfile updates the user-editable fields of the actor's own profile.
// Users may only edit themselves.
func (s *ProfileService) UpdateProfile(
	ctx context.Context, actorID, profileID uuid.UUID, username, bio, avatarURL string,
) (*types.Profile, error) {
	if actorID != profileID {
		return nil, types.ErrNotOwner
	}

	return s.profile.UpdateDetails(ctx, profileID, username, bio, avatarURL)
}

// CountUserMemes returns how many memes the given user has uploaded.
func (s *ProfileService) CountUserMemes(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.meme.CountUserMemes(ctx, userID)
}
