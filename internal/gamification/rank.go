package gamification

import (
	"sort"

	"github.com/google/uuid"
)

// Standing is a profile's position input for rank assignment.
type Standing struct {
	ID uuid.UUID
	XP int64
}

// RankedStanding is a standing with its assigned dense rank.
type RankedStanding struct {
	Standing

	Rank int
}

// AssignRanks produces a dense rank assignment over a snapshot of standings:
// profiles are ordered by experience descending, ties share a rank, and the
// next distinct experience value takes the next rank number. Ordering within
// a tie is deterministic (profile ID ascending) so repeated runs over the
// same snapshot return identical results.
func AssignRanks(standings []Standing) []RankedStanding {
	sorted := make([]Standing, len(standings))
	copy(sorted, standings)

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].XP != sorted[j].XP {
			return sorted[i].XP > sorted[j].XP
		}

		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	ranked := make([]RankedStanding, len(sorted))
	rank := 0

	for i, s := range sorted {
		if i == 0 || s.XP != sorted[i-1].XP {
			rank++
		}

		ranked[i] = RankedStanding{Standing: s, Rank: rank}
	}

	return ranked
}
