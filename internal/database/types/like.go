package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Like records that a user liked a meme. The composite primary key makes a
// second like for the same pair a conflict rather than a duplicate row.
type Like struct {
	bun.BaseModel `bun:"table:likes"`

	MemeID    uuid.UUID `bun:",pk,type:uuid" json:"memeId"`
	UserID    uuid.UUID `bun:",pk,type:uuid" json:"userId"`
	CreatedAt time.Time `bun:",notnull"      json:"createdAt"`
}
