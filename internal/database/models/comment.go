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

// CommentModel handles database operations for comments.
type CommentModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewComment creates a new comment model.
func NewComment(db *bun.DB, logger *zap.Logger) *CommentModel {
	return &CommentModel{
		db:     db,
		logger: logger.Named("db_comment"),
	}
}

// GetComment retrieves a single comment by ID.
func (m *CommentModel) GetComment(ctx context.Context, id uuid.UUID) (*types.Comment, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Comment, error) {
		var comment types.Comment

		err := m.db.NewSelect().
			Model(&comment).
			Where("comment.id = ?", id).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrCommentNotFound
			}

			return nil, fmt.Errorf("failed to get comment: %w", err)
		}

		return &comment, nil
	})
}

// GetForMeme retrieves all comments on a meme with their authors, newest
// first.
func (m *CommentModel) GetForMeme(ctx context.Context, memeID uuid.UUID) ([]*types.Comment, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Comment, error) {
		var comments []*types.Comment

		err := m.db.NewSelect().
			Model(&comments).
			Relation("Author").
			Where("comment.meme_id = ?", memeID).
			OrderExpr("comment.created_at DESC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get comments: %w", err)
		}

		return comments, nil
	})
}

// CountForMeme returns the true comment cardinality for a meme. It runs on
// the caller's transaction so the count stays consistent with what the caller
// writes back.
func (m *CommentModel) CountForMeme(ctx context.Context, db bun.IDB, memeID uuid.UUID) (int, error) {
	count, err := db.NewSelect().
		Model((*types.Comment)(nil)).
		Where("meme_id = ?", memeID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}

	return count, nil
}
