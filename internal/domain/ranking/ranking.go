// Package ranking orders scored candidates into a bounded recommendation list.
package ranking

import (
	"slices"

	"github.com/okian/devmatch/internal/domain/types"
)

// DefaultLimit is the maximum number of recommendations returned.
const DefaultLimit = 5

// Rank drops zero scores, places candidates without any skill match after
// all others, orders each side by descending score and keeps the first
// limit entries. Equal keys keep their input order. A non-positive limit
// means DefaultLimit. The input slice is not modified.
//
// When every entry scores zero the result is empty.
func Rank(entries []types.Entry, limit int) []types.Entry {
	if limit <= 0 {
		limit = DefaultLimit
	}

	ranked := make([]types.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Score > 0 {
			ranked = append(ranked, e)
		}
	}

	slices.SortStableFunc(ranked, compare)

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

func compare(a, b types.Entry) int {
	if a.HasSkillMatch() != b.HasSkillMatch() {
		if a.HasSkillMatch() {
			return -1
		}
		return 1
	}
	// descending
	return b.Score - a.Score
}
