package suggest

import (
	"sort"

	"github.com/okonst/scribecheck/internal/index"
	"github.com/okonst/scribecheck/internal/model"
)

// Selector derives ranked source recommendations from match data.
type Selector struct {
	limit int
}

// NewSelector creates a selector capped at limit suggestions.
func NewSelector(limit int) *Selector {
	if limit <= 0 {
		limit = 5
	}
	return &Selector{limit: limit}
}

// Select groups all matches by source, scores each source by its
// maximum similarity across any segment, and returns the top sources
// ranked by that score. Ties are broken by ascending source ID so
// repeated runs produce identical suggestion lists. The result has no
// duplicate IDs and at most the configured limit.
func (s *Selector) Select(matches map[int][]model.Match, snap *index.Snapshot) []model.SuggestedSource {
	best := make(map[string]float64)
	for _, segMatches := range matches {
		for _, m := range segMatches {
			if cur, seen := best[m.SourceID]; !seen || m.Similarity > cur {
				best[m.SourceID] = m.Similarity
			}
		}
	}

	ids := make([]string, 0, len(best))
	for id := range best {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if best[ids[i]] != best[ids[j]] {
			return best[ids[i]] > best[ids[j]]
		}
		return ids[i] < ids[j]
	})

	if len(ids) > s.limit {
		ids = ids[:s.limit]
	}

	suggestions := make([]model.SuggestedSource, 0, len(ids))
	for _, id := range ids {
		suggestion := model.SuggestedSource{
			ID:         id,
			Similarity: best[id],
		}
		if snap != nil {
			if src, found := snap.Source(id); found {
				suggestion.Title = src.Title
				suggestion.Authors = src.Authors
				suggestion.PublicationYear = src.PublicationYear
				suggestion.Type = src.Type
			}
		}
		suggestions = append(suggestions, suggestion)
	}
	return suggestions
}
