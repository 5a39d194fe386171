package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Meme is an uploaded image with an optional caption. LikesCount and
// CommentsCount are denormalized aggregates maintained transactionally with
// their underlying records and reconciled by the rank worker, so brief
// divergence is possible but never permanent.
type Meme struct {
	bun.BaseModel `bun:"table:memes"`

	ID            uuid.UUID `bun:",pk,type:uuid"      json:"id"`
	UserID        uuid.UUID `bun:",notnull,type:uuid" json:"userId"`
	ImageURL      string    `bun:",notnull"           json:"imageUrl"`
	ImageKey      string    `bun:",notnull"           json:"-"`
	Caption       string    `bun:",nullzero"          json:"caption"`
	LikesCount    int64     `bun:",notnull,default:0" json:"likesCount"`
	CommentsCount int64     `bun:",notnull,default:0" json:"commentsCount"`
	CreatedAt     time.Time `bun:",notnull"           json:"createdAt"`

	Author *Profile `bun:"rel:belongs-to,join:user_id=id" json:"author,omitempty"`

	// LikedByViewer is filled per query for the requesting user; it is not a
	// column.
	LikedByViewer bool `bun:"liked_by_viewer,scanonly" json:"likedByViewer"`
}
