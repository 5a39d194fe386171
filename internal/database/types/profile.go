// Package types defines the persistent entities and shared errors of the
// memegrid database layer.
package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// MaxCaptionLength bounds meme captions.
const MaxCaptionLength = 500

// Profile is a user's public identity and gamification state. Identity
// issuance lives in the external auth provider; the profile row is created on
// first authenticated contact. Level is always the deterministic function of
// XP. Rank is a cached snapshot written by the rank assigner; zero means the
// profile has not been ranked yet.
type Profile struct {
	bun.BaseModel `bun:"table:profiles"`

	ID        uuid.UUID `bun:",pk,type:uuid"         json:"id"`
	Username  string    `bun:",notnull,unique"       json:"username"`
	AvatarURL string    `bun:",nullzero"             json:"avatarUrl"`
	Bio       string    `bun:",nullzero"             json:"bio"`
	XP        int64     `bun:",notnull,default:0"    json:"xp"`
	Level     int       `bun:",notnull,default:1"    json:"level"`
	Rank      int       `bun:",nullzero"             json:"rank"`
	CreatedAt time.Time `bun:",notnull"              json:"createdAt"`
	UpdatedAt time.Time `bun:",notnull"              json:"updatedAt"`
}

// RankUpdate carries one profile's freshly computed rank to the bulk update.
type RankUpdate struct {
	ID   uuid.UUID `bun:"id,type:uuid"`
	Rank int       `bun:"rank"`
}

// RankRefresh tracks when a named rank snapshot was last recomputed. The row
// doubles as the lock guarding concurrent refresh runs.
type RankRefresh struct {
	bun.BaseModel `bun:"table:rank_refreshes"`

	Name        string    `bun:",pk"`
	LastRefresh time.Time `bun:",notnull"`
}
