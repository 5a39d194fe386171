// Package service holds the business logic composed from database models.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/memegrid/memegrid/internal/database/types"
	"github.com/memegrid/memegrid/internal/gamification"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// GamificationService applies experience awards and keeps levels consistent.
// All mutations run inside the caller's transaction so a failed award fails
// the action that triggered it.
type GamificationService struct {
	rules  gamification.Config
	logger *zap.Logger
}

// NewGamification creates a new gamification service.
func NewGamification(rules gamification.Config, logger *zap.Logger) *GamificationService {
	return &GamificationService{
		rules:  rules,
		logger: logger.Named("gamification_service"),
	}
}

// Rules returns the active gamification configuration.
func (s *GamificationService) Rules() gamification.Config {
	return s.rules
}

// Award credits the action's experience to the given user and recomputes
// their level.
func (s *GamificationService) Award(
	ctx context.Context, tx bun.IDB, userID uuid.UUID, action gamification.Action,
) error {
	award, err := s.rules.Award(action)
	if err != nil {
		return err
	}

	return s.applyDelta(ctx, tx, userID, award)
}

// Revoke reverses a previously credited action. A no-op unless clawback is
// enabled in the gamification config.
func (s *GamificationService) Revoke(
	ctx context.Context, tx bun.IDB, userID uuid.UUID, action gamification.Action,
) error {
	delta, err := s.rules.Reversal(action)
	if err != nil {
		return err
	}

	if delta == 0 {
		return nil
	}

	return s.applyDelta(ctx, tx, userID, delta)
}

func (s *GamificationService) applyDelta(
	ctx context.Context, tx bun.IDB, userID uuid.UUID, delta int64,
) error {
	if delta == 0 {
		return nil
	}

	var profile types.Profile

	err := tx.NewSelect().
		Model(&profile).
		Column("xp").
		Where("id = ?", userID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.ErrProfileNotFound
		}

		return fmt.Errorf("failed to read experience: %w", err)
	}

	newXP := gamification.Apply(profile.XP, delta)
	newLevel := s.rules.Level(newXP)

	_, err = tx.NewUpdate().
		Model((*types.Profile)(nil)).
		Set("xp = ?", newXP).
		Set("level = ?", newLevel).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply experience delta: %w", err)
	}

	return nil
}
