// Package models holds the per-entity database operations.
package models

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
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap"
)

// ProfileModel handles database operations for user profiles.
type ProfileModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewProfile creates a new profile model.
func NewProfile(db *bun.DB, logger *zap.Logger) *ProfileModel {
	return &ProfileModel{
		db:     db,
		logger: logger.Named("db_profile"),
	}
}

// GetProfile retrieves a profile by ID.
func (m *ProfileModel) GetProfile(ctx context.Context, id uuid.UUID) (*types.Profile, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Profile, error) {
		var profile types.Profile

		err := m.db.NewSelect().
			Model(&profile).
			Where("id = ?", id).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrProfileNotFound
			}

			return nil, fmt.Errorf("failed to get profile: %w", err)
		}

		return &profile, nil
	})
}

// EnsureProfile creates a profile row for an authenticated identity if one
// does not exist yet. Existing rows are left untouched.
func (m *ProfileModel) EnsureProfile(ctx context.Context, id uuid.UUID, username string) (*types.Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, types.ErrEmptyUsername
	}

	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Profile, error) {
		now := time.Now()
		profile := &types.Profile{
			ID:        id,
			Username:  username,
			Level:     1,
			CreatedAt: now,
			UpdatedAt: now,
		}

		_, err := m.db.NewInsert().
			Model(profile).
			On("CONFLICT (id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, types.ErrUsernameTaken
			}

			return nil, fmt.Errorf("failed to ensure profile: %w", err)
		}

		var existing types.Profile

		err = m.db.NewSelect().
			Model(&existing).
			Where("id = ?", id).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load ensured profile: %w", err)
		}

		return &existing, nil
	})
}

// UpdateDetails updates the user-editable profile fields and returns the
// updated row.
func (m *ProfileModel) UpdateDetails(
	ctx context.Context, id uuid.UUID, username, bio, avatarURL string,
) (*types.Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, types.ErrEmptyUsername
	}

	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Profile, error) {
		var profile types.Profile

		res, err := m.db.NewUpdate().
			Model(&profile).
			Set("username = ?", username).
			Set("bio = ?", bio).
			Set("avatar_url = ?", avatarURL).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", id).
			Returning("*").
			Exec(ctx)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, types.ErrUsernameTaken
			}

			return nil, fmt.Errorf("failed to update profile: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to check update result: %w", err)
		}

		if affected == 0 {
			return nil, types.ErrProfileNotFound
		}

		return &profile, nil
	})
}

// GetStandings returns every profile's ID and experience, ordered by
// experience descending with ID as the deterministic tie-breaker. This is the
// snapshot the rank assigner works from; it runs on the caller's transaction
// so ranks reflect a consistent point in time.
func (m *ProfileModel) GetStandings(ctx context.Context, db bun.IDB) ([]*types.Profile, error) {
	var profiles []*types.Profile

	err := db.NewSelect().
		Model(&profiles).
		Column("id", "xp").
		OrderExpr("xp DESC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get standings: %w", err)
	}

	return profiles, nil
}

// TopByExperience returns the highest-experience profiles for the
// leaderboard read path.
func (m *ProfileModel) TopByExperience(ctx context.Context, limit int) ([]*types.Profile, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Profile, error) {
		var profiles []*types.Profile

		err := m.db.NewSelect().
			Model(&profiles).
			OrderExpr("xp DESC, id ASC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get leaderboard profiles: %w", err)
		}

		return profiles, nil
	})
}

// UpdateRanks bulk-writes freshly computed ranks. Last writer wins, which is
// acceptable because rank assignment is idempotent for a fixed experience
// snapshot.
func (m *ProfileModel) UpdateRanks(ctx context.Context, tx bun.IDB, updates []types.RankUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	values := tx.NewValues(&updates)

	_, err := tx.NewUpdate().
		With("_ranks", values).
		Model((*types.Profile)(nil)).
		TableExpr("_ranks").
		Set("rank = _ranks.rank").
		Where("profile.id = _ranks.id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update ranks: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation.
func isUniqueViolation(err error) bool {
	var pgerr *pgdriver.Error

	return errors.As(err, &pgerr) && pgerr.Field('C') == "23505"
}
