package migrations

import (
	"context"
	"fmt"

	"github.com/memegrid/memegrid/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.Profile)(nil),
			(*types.Meme)(nil),
			(*types.Like)(nil),
			(*types.Comment)(nil),
			(*types.RankRefresh)(nil),
		}

		for _, model := range models {
			_, err := db.NewCreateTable().
				Model(model).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create table for %T: %w", model, err)
			}
		}

		// Deleting a profile or a meme must cascade to its dependent records,
		// and deleting a meme must never leave orphaned likes or comments.
		constraints := []string{
			`ALTER TABLE memes ADD CONSTRAINT fk_memes_user
				FOREIGN KEY (user_id) REFERENCES profiles (id) ON DELETE CASCADE`,
			`ALTER TABLE likes ADD CONSTRAINT fk_likes_meme
				FOREIGN KEY (meme_id) REFERENCES memes (id) ON DELETE CASCADE`,
			`ALTER TABLE likes ADD CONSTRAINT fk_likes_user
				FOREIGN KEY (user_id) REFERENCES profiles (id) ON DELETE CASCADE`,
			`ALTER TABLE comments ADD CONSTRAINT fk_comments_meme
				FOREIGN KEY (meme_id) REFERENCES memes (id) ON DELETE CASCADE`,
			`ALTER TABLE comments ADD CONSTRAINT fk_comments_user
				FOREIGN KEY (user_id) REFERENCES profiles (id) ON DELETE CASCADE`,
			`ALTER TABLE profiles ADD CONSTRAINT chk_profiles_xp_non_negative
				CHECK (xp >= 0)`,
			`ALTER TABLE memes ADD CONSTRAINT chk_memes_counts_non_negative
				CHECK (likes_count >= 0 AND comments_count >= 0)`,
		}

		for _, constraint := range constraints {
			if _, err := db.NewRaw(constraint).Exec(ctx); err != nil {
				return fmt.Errorf("failed to add constraint: %w", err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		tables := []string{"rank_refreshes", "comments", "likes", "memes", "profiles"}

		for _, table := range tables {
			_, err := db.NewRaw(fmt.Sprintf(`DROP TABLE IF EXISTS %s CASCADE`, table)).Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to drop table %s: %w", table, err)
			}
		}

		return nil
	})
}
