// Package convert maps database rows to REST API types.
package convert

import (
	"github.com/memegrid/memegrid/internal/database/types"
	restTypes "github.com/memegrid/memegrid/internal/rest/types"
)

// Profile converts a database profile to a REST API profile.
func Profile(profile *types.Profile) *restTypes.Profile {
	if profile == nil {
		return nil
	}

	return &restTypes.Profile{
		ID:        profile.ID.String(),
		Username:  profile.Username,
		AvatarURL: profile.AvatarURL,
		Bio:       profile.Bio,
		XP:        profile.XP,
		Level:     profile.Level,
		Rank:      profile.Rank,
		CreatedAt: profile.CreatedAt,
	}
}

// Profiles converts a slice of database profiles.
func Profiles(profiles []*types.Profile) []*restTypes.Profile {
	result := make([]*restTypes.Profile, len(profiles))
	for i, p := range profiles {
		result[i] = Profile(p)
	}

	return result
}
