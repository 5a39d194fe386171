package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/memegrid/memegrid/internal/database/dbretry"
	"github.com/memegrid/memegrid/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// MemeModel handles database operations for memes.
type MemeModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewMeme creates a new meme model.
func NewMeme(db *bun.DB, logger *zap.Logger) *MemeModel {
	return &MemeModel{
		db:     db,
		logger: logger.Named("db_meme"),
	}
}

// GetMeme retrieves a single meme by ID.
func (m *MemeModel) GetMeme(ctx context.Context, id uuid.UUID) (*types.Meme, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Meme, error) {
		var meme types.Meme

		err := m.db.NewSelect().
			Model(&meme).
			Where("meme.id = ?", id).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrMemeNotFound
			}

			return nil, fmt.Errorf("failed to get meme: %w", err)
		}

		return &meme, nil
	})
}

// GetFeedPage retrieves one page of the home feed, newest first, with each
// meme's author and whether the viewer has liked it.
func (m *MemeModel) GetFeedPage(
	ctx context.Context, viewerID uuid.UUID, offset, limit int,
) ([]*types.Meme, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Meme, error) {
		var memes []*types.Meme

		err := m.feedQuery(&memes, viewerID).
			OrderExpr("meme.created_at DESC").
			Offset(offset).
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get feed page: %w", err)
		}

		return memes, nil
	})
}

// GetUserMemes retrieves every meme uploaded by a user, newest first.
func (m *MemeModel) GetUserMemes(
	ctx context.Context, userID, viewerID uuid.UUID,
) ([]*types.Meme, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Meme, error) {
		var memes []*types.Meme

		err := m.feedQuery(&memes, viewerID).
			Where("meme.user_id = ?", userID).
			OrderExpr("meme.created_at DESC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get user memes: %w", err)
		}

		return memes, nil
	})
}

// CountUserMemes returns how many memes a user has uploaded.
func (m *MemeModel) CountUserMemes(ctx context.Context, userID uuid.UUID) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		count, err := m.db.NewSelect().
			Model((*types.Meme)(nil)).
			Where("user_id = ?", userID).
			Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count user memes: %w", err)
		}

		return count, nil
	})
}

func (m *MemeModel) feedQuery(memes *[]*types.Meme, viewerID uuid.UUID) *bun.SelectQuery {
	return m.db.NewSelect().
		Model(memes).
		Relation("Author").
		ColumnExpr("meme.*").
		ColumnExpr(
			"EXISTS (SELECT 1 FROM likes AS l WHERE l.meme_id = meme.id AND l.user_id = ?) AS liked_by_viewer",
			viewerID,
		)
}
