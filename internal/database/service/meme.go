package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/memegrid/memegrid/internal/database/dbretry"
	"github.com/memegrid/memegrid/internal/database/types"
	"github.com/memegrid/memegrid/internal/gamification"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// MemeService owns meme creation and deletion.
type MemeService struct {
	db     *bun.DB
	gam    *GamificationService
	logger *zap.Logger
}

// NewMeme creates a new meme service.
func NewMeme(db *bun.DB, gam *GamificationService, logger *zap.Logger) *MemeService {
	return &MemeService{
		db:     db,
		gam:    gam,
		logger: logger.Named("meme_service"),
	}
}

// CreateMeme stores a new meme and awards upload experience to its author.
// The image must already be in blob storage; imageURL and imageKey reference
// it.
func (s *MemeService) CreateMeme(
	ctx context.Context, userID uuid.UUID, imageURL, imageKey, caption string,
) (*types.Meme, error) {
	caption = strings.TrimSpace(caption)
	if len(caption) > types.MaxCaptionLength {
		return nil, types.ErrCaptionTooLong
	}

	meme := &types.Meme{
		ID:        uuid.New(),
		UserID:    userID,
		ImageURL:  imageURL,
		ImageKey:  imageKey,
		Caption:   caption,
		CreatedAt: time.Now(),
	}

	err := dbretry.Transaction(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(meme).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert meme: %w", err)
		}

		return s.gam.Award(ctx, tx, userID, gamification.ActionMemeCreated)
	})
	if err != nil {
		return nil, err
	}

	return meme, nil
}

// DeleteMeme removes a meme owned by actorID. Likes and comments cascade with
// the row; the returned image key lets the caller remove the stored blob.
func (s *MemeService) DeleteMeme(ctx context.Context, memeID, actorID uuid.UUID) (string, error) {
	var imageKey string

	err := dbretry.Transaction(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		var meme types.Meme

		err := tx.NewSelect().
			Model(&meme).
			Column("id", "user_id", "image_key").
			Where("id = ?", memeID).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return types.ErrMemeNotFound
			}

			return fmt.Errorf("failed to load meme: %w", err)
		}

		if meme.UserID != actorID {
			return types.ErrNotOwner
		}

		imageKey = meme.ImageKey

		if _, err := tx.NewDelete().Model(&meme).WherePK().Exec(ctx); err != nil {
			return fmt.Errorf("failed to delete meme: %w", err)
		}

		return s.gam.Revoke(ctx, tx, meme.UserID, gamification.ActionMemeCreated)
	})
	if err != nil {
		return "", err
	}

	return imageKey, nil
}
