// Package review selects weakly mastered concepts for restudy.
package review

import (
	"sort"

	"github.com/verte-zerg/typemaster/internal/model"
)

// DefaultLimit is used when callers pass a non-positive limit.
const DefaultLimit = 5

// Select returns up to limit concept ids whose incorrect count exceeds their
// correct count, stalest first. Ties on lastSeen are ordered by id.
func Select(scores map[string]model.ConceptScore, limit int) []string {
	if limit <= 0 {
		limit = DefaultLimit
	}
	type candidate struct {
		id    string
		score model.ConceptScore
	}
	candidates := make([]candidate, 0, len(scores))
	for id, score := range scores {
		if score.Incorrect > score.Correct {
			candidates = append(candidates, candidate{id: id, score: score})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score.LastSeen == candidates[j].score.LastSeen {
			return candidates[i].id < candidates[j].id
		}
		return candidates[i].score.LastSeen < candidates[j].score.LastSeen
	})
	if limit > len(candidates) {
		limit = len(candidates)
	}
	ids := make([]string, 0, limit)
	for i := 0; i < limit; i++ {
		ids = append(ids, candidates[i].id)
	}
	return ids
}
