package engine

import (
	"sort"

	"github.com/Kavirubc/findora/pkg/models"
)

// RankedMatch pairs a candidate with its score against the query item
type RankedMatch struct {
	Result ScoreResult
	Item   *models.Item
}

// Rank scores the query item against every candidate, keeps the ones at or
// above threshold, and returns the top topK sorted by confidence descending
// (ties keep input order). Candidates must already be filtered to the
// opposite item type and to feature-complete items; that is the caller's job.
// An empty pool or no qualifying candidate yields an empty slice.
func (e *Engine) Rank(query *models.Item, candidates []*models.Item, threshold float64, topK int) []RankedMatch {
	matches := make([]RankedMatch, 0, len(candidates))
	for _, c := range candidates {
		result := e.Score(query, c, threshold)
		if result.IsMatch {
			matches = append(matches, RankedMatch{Result: result, Item: c})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Result.ConfidenceScore > matches[j].Result.ConfidenceScore
	})

	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}
