package database

import (
	"github.com/memegrid/memegrid/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	profile *models.ProfileModel
	meme    *models.MemeModel
	like    *models.LikeModel
	comment *models.CommentModel
	rank    *models.RankModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		profile: models.NewProfile(db, logger),
		meme:    models.NewMeme(db, logger),
		like:    models.NewLike(db, logger),
		comment: models.NewComment(db, logger),
		rank:    models.NewRank(db, logger),
	}
}

// Profile returns the profile model repository.
func (r *Repository) Profile() *models.ProfileModel {
	return r.profile
}

// Meme returns the meme model repository.
func (r *Repository) Meme() *models.MemeModel {
	return r.meme
}

// Like returns the like model repository.
func (r *Repository) Like() *models.LikeModel {
	return r.like
}

// Comment returns the comment model repository.
func (r *Repository) Comment() *models.CommentModel {
	return r.comment
}

// Rank returns the rank snapshot model repository.
func (r *Repository) Rank() *models.RankModel {
	return r.rank
}
