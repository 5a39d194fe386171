package migrations

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		indexes := []string{
			// Home feed: newest first.
			`CREATE INDEX IF NOT EXISTS idx_memes_created_at
				ON memes (created_at DESC)`,
			// Profile page: a user's memes, newest first.
			`CREATE INDEX IF NOT EXISTS idx_memes_user_created
				ON memes (user_id, created_at DESC)`,
			// Comment listing per meme.
			`CREATE INDEX IF NOT EXISTS idx_comments_meme_created
				ON comments (meme_id, created_at DESC)`,
			// Liked-by-viewer lookups join on meme_id first via the pk;
			// the reverse order serves per-user cascades.
			`CREATE INDEX IF NOT EXISTS idx_likes_user
				ON likes (user_id)`,
			`CREATE INDEX IF NOT EXISTS idx_comments_user
				ON comments (user_id)`,
			// Leaderboard reads and rank assignment scans.
			`CREATE INDEX IF NOT EXISTS idx_profiles_xp
				ON profiles (xp DESC, id ASC)`,
		}

		for _, index := range indexes {
			if _, err := db.NewRaw(index).Exec(ctx); err != nil {
				return fmt.Errorf("failed to create index: %w", err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		var drops strings.Builder

		for _, name := range []string{
			"idx_memes_created_at",
			"idx_memes_user_created",
			"idx_comments_meme_created",
			"idx_likes_user",
			"idx_comments_user",
			"idx_profiles_xp",
		} {
			drops.WriteString("DROP INDEX IF EXISTS " + name + ";\n")
		}

		if _, err := db.NewRaw(drops.String()).Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop indexes: %w", err)
		}

		return nil
	})
}
