package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Comment is a user's comment on a meme. Deletable by its author only.
type Comment struct {
	bun.BaseModel `bun:"table:comments"`

	ID        uuid.UUID `bun:",pk,type:uuid"      json:"id"`
	MemeID    uuid.UUID `bun:",notnull,type:uuid" json:"memeId"`
	UserID    uuid.UUID `bun:",notnull,type:uuid" json:"userId"`
	Content   string    `bun:",notnull"           json:"content"`
	CreatedAt time.Time `bun:",notnull"           json:"createdAt"`

	Author *Profile `bun:"rel:belongs-to,join:user_id=id" json:"author,omitempty"`
}
