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
	"github.com/memegrid/memegrid/internal/database/models"
	"github.com/memegrid/memegrid/internal/database/types"
	"github.com/memegrid/memegrid/internal/gamification"
	"github.com/sourcegraph/conc/pool"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ChangePublisher delivers table-change notifications after committed
// engagement mutations. A nil publisher disables notification.
type ChangePublisher interface {
	PublishCommentChange(ctx context.Context, memeID, commentID uuid.UUID, op string) error
	PublishLikeChange(ctx context.Context, memeID, userID uuid.UUID, op string) error
}

// EngagementService owns likes and comments together with the denormalized
// counters on memes. Every counter change shares a transaction with its
// record mutation, and the reconciliation sweep recomputes counters from true
// cardinality so divergence can never persist.
type EngagementService struct {
	db        *bun.DB
	gam       *GamificationService
	like      *models.LikeModel
	comment   *models.CommentModel
	publisher ChangePublisher
	logger    *zap.Logger
}

// NewEngagement creates a new engagement service.
func NewEngagement(
	db *bun.DB, gam *GamificationService, like *models.LikeModel, comment *models.CommentModel,
	publisher ChangePublisher, logger *zap.Logger,
) *EngagementService {
	return &EngagementService{
		db:        db,
		gam:       gam,
		like:      like,
		comment:   comment,
		publisher: publisher,
		logger:    logger.Named("engagement_service"),
	}
}

// SetPublisher wires the realtime change publisher. While no publisher is
// set, change events are skipped.
func (s *EngagementService) SetPublisher(p ChangePublisher) {
	s.publisher = p
}

// LikeMeme records a like by userID on memeID, bumps the meme's like counter,
// and awards experience to the meme's author. A second like for the same pair
// returns ErrDuplicateLike without creating a second record.
func (s *EngagementService) LikeMeme(ctx context.Context, memeID, userID uuid.UUID) error {
	err := dbretry.Transaction(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		authorID, err := lockMeme(ctx, tx, memeID)
		if err != nil {
			return err
		}

		res, err := tx.NewInsert().
			Model(&types.Like{
				MemeID:    memeID,
				UserID:    userID,
				CreatedAt: time.Now(),
			}).
			On("CONFLICT (meme_id, user_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert like: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check like insert: %w", err)
		}

		if affected == 0 {
			return types.ErrDuplicateLike
		}

		_, err = tx.NewUpdate().
			Model((*types.Meme)(nil)).
			Set("likes_count = likes_count + 1").
			Where("id = ?", memeID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to increment like counter: %w", err)
		}

		// The award goes to the meme's author, not the liker.
		return s.gam.Award(ctx, tx, authorID, gamification.ActionMemeLiked)
	})
	if err != nil {
		return err
	}

	s.publishLike(ctx, memeID, userID, "insert")

	return nil
}

// UnlikeMeme removes userID's like from memeID and decrements the counter.
func (s *EngagementService) UnlikeMeme(ctx context.Context, memeID, userID uuid.UUID) error {
	err := dbretry.Transaction(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		authorID, err := lockMeme(ctx, tx, memeID)
		if err != nil {
			return err
		}

		res, err := tx.NewDelete().
			Model((*types.Like)(nil)).
			Where("meme_id = ?", memeID).
			Where("user_id = ?", userID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete like: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check like delete: %w", err)
		}

		if affected == 0 {
			return types.ErrLikeNotFound
		}

		_, err = tx.NewUpdate().
			Model((*types.Meme)(nil)).
			Set("likes_count = GREATEST(likes_count - 1, 0)").
			Where("id = ?", memeID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to decrement like counter: %w", err)
		}

		return s.gam.Revoke(ctx, tx, authorID, gamification.ActionMemeLiked)
	})
	if err != nil {
		return err
	}

	s.publishLike(ctx, memeID, userID, "delete")

	return nil
}

// AddComment creates a comment on memeID, bumps the comment counter, and
// awards experience to the comment's author.
func (s *EngagementService) AddComment(
	ctx context.Context, memeID, userID uuid.UUID, content string,
) (*types.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, types.ErrEmptyContent
	}

	comment := &types.Comment{
		ID:        uuid.New(),
		MemeID:    memeID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}

	err := dbretry.Transaction(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		if _, err := lockMeme(ctx, tx, memeID); err != nil {
			return err
		}

		if _, err := tx.NewInsert().Model(comment).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert comment: %w", err)
		}

		_, err := tx.NewUpdate().
			Model((*types.Meme)(nil)).
			Set("comments_count = comments_count + 1").
			Where("id = ?", memeID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to increment comment counter: %w", err)
		}

		return s.gam.Award(ctx, tx, userID, gamification.ActionCommentCreated)
	})
	if err != nil {
		return nil, err
	}

	s.publishComment(ctx, memeID, comment.ID, "insert")

	return comment, nil
}

// DeleteComment removes a comment. Only the comment's author may delete it.
func (s *EngagementService) DeleteComment(ctx context.Context, commentID, actorID uuid.UUID) error {
	var memeID uuid.UUID

	err := dbretry.Transaction(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		var comment types.Comment

		err := tx.NewSelect().
			Model(&comment).
			Where("id = ?", commentID).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return types.ErrCommentNotFound
			}

			return fmt.Errorf("failed to load comment: %w", err)
		}

		if comment.UserID != actorID {
			return types.ErrNotOwner
		}

		memeID = comment.MemeID

		if _, err := tx.NewDelete().Model(&comment).WherePK().Exec(ctx); err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}

		_, err = tx.NewUpdate().
			Model((*types.Meme)(nil)).
			Set("comments_count = GREATEST(comments_count - 1, 0)").
			Where("id = ?", memeID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to decrement comment counter: %w", err)
		}

		return s.gam.Revoke(ctx, tx, comment.UserID, gamification.ActionCommentCreated)
	})
	if err != nil {
		return err
	}

	s.publishComment(ctx, memeID, commentID, "delete")

	return nil
}

// ReconcileMeme recomputes one meme's counters from the true cardinality of
// its like and comment records. The meme row is locked so concurrent
// engagement mutations order against the rewrite.
func (s *EngagementService) ReconcileMeme(ctx context.Context, memeID uuid.UUID) error {
	err := dbretry.Transaction(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		if _, err := lockMeme(ctx, tx, memeID); err != nil {
			return err
		}

		likes, err := s.like.CountForMeme(ctx, tx, memeID)
		if err != nil {
			return err
		}

		comments, err := s.comment.CountForMeme(ctx, tx, memeID)
		if err != nil {
			return err
		}

		_, err = tx.NewUpdate().
			Model((*types.Meme)(nil)).
			Set("likes_count = ?", likes).
			Set("comments_count = ?", comments).
			Where("id = ?", memeID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to reconcile counters: %w", err)
		}

		return nil
	})
	// The meme can disappear between the sweep's batch listing and this
	// pass; there is nothing left to reconcile.
	if errors.Is(err, types.ErrMemeNotFound) {
		return nil
	}

	return err
}

// ReconcileAll sweeps every meme and rewrites any counter that drifted from
// the underlying records. Memes are processed in bounded-concurrency batches.
func (s *EngagementService) ReconcileAll(ctx context.Context, batchSize, concurrency int) error {
	if batchSize <= 0 {
		batchSize = 500
	}

	if concurrency <= 0 {
		concurrency = 4
	}

	var lastID uuid.UUID

	for {
		ids, err := s.nextMemeBatch(ctx, lastID, batchSize)
		if err != nil {
			return err
		}

		if len(ids) == 0 {
			return nil
		}

		p := pool.New().WithErrors().WithMaxGoroutines(concurrency).WithContext(ctx)
		for _, id := range ids {
			p.Go(func(ctx context.Context) error {
				return s.ReconcileMeme(ctx, id)
			})
		}

		if err := p.Wait(); err != nil {
			return fmt.Errorf("failed to reconcile meme batch: %w", err)
		}

		lastID = ids[len(ids)-1]
	}
}

func (s *EngagementService) nextMemeBatch(
	ctx context.Context, after uuid.UUID, limit int,
) ([]uuid.UUID, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]uuid.UUID, error) {
		var ids []uuid.UUID

		query := s.db.NewSelect().
			Model((*types.Meme)(nil)).
			Column("id").
			OrderExpr("id ASC").
			Limit(limit)

		if after != uuid.Nil {
			query = query.Where("id > ?", after)
		}

		if err := query.Scan(ctx, &ids); err != nil {
			return nil, fmt.Errorf("failed to list meme ids: %w", err)
		}

		return ids, nil
	})
}

func (s *EngagementService) publishLike(ctx context.Context, memeID, userID uuid.UUID, op string) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.PublishLikeChange(ctx, memeID, userID, op); err != nil {
		s.logger.Warn("Failed to publish like change",
			zap.String("memeID", memeID.String()),
			zap.Error(err))
	}
}

func (s *EngagementService) publishComment(ctx context.Context, memeID, commentID uuid.UUID, op string) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.PublishCommentChange(ctx, memeID, commentID, op); err != nil {
		s.logger.Warn("Failed to publish comment change",
			zap.String("memeID", memeID.String()),
			zap.Error(err))
	}
}

// lockMeme locks a meme row for the duration of the transaction and returns
// its author. Serializes counter updates per meme.
func lockMeme(ctx context.Context, tx bun.Tx, memeID uuid.UUID) (uuid.UUID, error) {
	var meme types.Meme

	err := tx.NewSelect().
		Model(&meme).
		Column("id", "user_id").
		Where("id = ?", memeID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, types.ErrMemeNotFound
		}

		return uuid.Nil, fmt.Errorf("failed to lock meme: %w", err)
	}

	return meme.UserID, nil
}
