package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/memegrid/memegrid/internal/database/dbretry"
	"github.com/memegrid/memegrid/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// LeaderboardSnapshot names the rank snapshot covering the global
// leaderboard.
const LeaderboardSnapshot = "leaderboard"

// RankModel handles refresh bookkeeping for rank snapshots.
type RankModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewRank creates a new rank snapshot model.
func NewRank(db *bun.DB, logger *zap.Logger) *RankModel {
	return &RankModel{
		db:     db,
		logger: logger.Named("db_rank"),
	}
}

// RefreshIfStale runs refresh inside a transaction if the named snapshot has
// not been recomputed within staleDuration. Concurrent invocations are safe:
// the computation is idempotent for a fixed experience snapshot and the rank
// column accepts last-writer-wins.
func (m *RankModel) RefreshIfStale(
	ctx context.Context, name string, staleDuration time.Duration,
	refresh func(ctx context.Context, tx bun.Tx) error,
) error {
	return dbretry.Transaction(ctx, m.db, func(ctx context.Context, tx bun.Tx) error {
		var record types.RankRefresh

		err := tx.NewSelect().
			Model(&record).
			Where("name = ?", name).
			For("UPDATE SKIP LOCKED").
			Scan(ctx)

		switch {
		case err == nil:
			if time.Since(record.LastRefresh) <= staleDuration {
				return nil
			}
		case errors.Is(err, sql.ErrNoRows):
			// SKIP LOCKED reports no row both when the snapshot has never
			// been recomputed and when another refresher holds the row.
			// Only the first case proceeds.
			exists, existsErr := tx.NewSelect().
				Model((*types.RankRefresh)(nil)).
				Where("name = ?", name).
				Exists(ctx)
			if existsErr != nil {
				return fmt.Errorf("failed to check refresh info: %w", existsErr)
			}

			if exists {
				m.logger.Debug("Skipped rank refresh held by another refresher",
					zap.String("name", name))

				return nil
			}
		default:
			return fmt.Errorf("failed to get refresh info: %w", err)
		}

		if err := refresh(ctx, tx); err != nil {
			return fmt.Errorf("failed to refresh rank snapshot %s: %w", name, err)
		}

		_, err = tx.NewInsert().
			Model(&types.RankRefresh{
				Name:        name,
				LastRefresh: time.Now(),
			}).
			On("CONFLICT (name) DO UPDATE").
			Set("last_refresh = EXCLUDED.last_refresh").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update refresh time: %w", err)
		}

		return nil
	})
}

// GetLastRefresh returns when the named snapshot was last recomputed. A zero
// time means it never has been.
func (m *RankModel) GetLastRefresh(ctx context.Context, name string) (time.Time, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (time.Time, error) {
		var record types.RankRefresh

		err := m.db.NewSelect().
			Model(&record).
			Where("name = ?", name).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return time.Time{}, nil
			}

			return time.Time{}, fmt.Errorf("failed to get refresh info: %w", err)
		}

		return record.LastRefresh, nil
	})
}
