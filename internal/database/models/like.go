package models

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/memegrid/memegrid/internal/database/dbretry"
	"github.com/memegrid/memegrid/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// LikeModel handles database operations for likes.
type LikeModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewLike creates a new like model.
func NewLike(db *bun.DB, logger *zap.Logger) *LikeModel {
	return &LikeModel{
		db:     db,
		logger: logger.Named("db_like"),
	}
}

// Exists reports whether the given user has liked the given meme.
func (m *LikeModel) Exists(ctx context.Context, memeID, userID uuid.UUID) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		exists, err := m.db.NewSelect().
			Model((*types.Like)(nil)).
			Where("meme_id = ?", memeID).
			Where("user_id = ?", userID).
			Exists(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to check like: %w", err)
		}

		return exists, nil
	})
}

// CountForMeme returns the true like cardinality for a meme. It runs on the
// caller's transaction so the count stays consistent with what the caller
// writes back.
func (m *LikeModel) CountForMeme(ctx context.Context, db bun.IDB, memeID uuid.UUID) (int, error) {
	count, err := db.NewSelect().
		Model((*types.Like)(nil)).
		Where("meme_id = ?", memeID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}

	return count, nil
}
