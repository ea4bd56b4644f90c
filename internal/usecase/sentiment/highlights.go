package sentiment

import (
	"math"
	"sort"
	"strings"

	"github.com/sentimeter-team/sentimeter/internal/domain/entities"
)

// minHighlightWords filters out short fragments: anything under 5 whitespace
// delimited tokens is too weak to serve as evidence.
const minHighlightWords = 5

// RankHighlights orders scored sentences by how confidently non-neutral they
// are: distance of rating/5 from the 0.5 midpoint, descending. Ties keep the
// original sentence order (stable sort), so the ranking is deterministic for
// identical input. The full ranked order is returned; callers apply their own
// cutoff.
func RankHighlights(scored []entities.ScoredSentence) []string {
	type candidate struct {
		text       string
		confidence float64
	}

	var candidates []candidate
	for _, s := range scored {
		if len(strings.Fields(s.Text)) < minHighlightWords {
			continue
		}
		candidates = append(candidates, candidate{
			text:       s.Text,
			confidence: math.Abs(float64(s.Rating)/float64(entities.RatingMax) - 0.5),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].confidence > candidates[j].confidence
	})

	highlights := make([]string, len(candidates))
	for i, c := range candidates {
		highlights[i] = c.text
	}
	return highlights
}

// TopHighlights applies a cutoff to a ranked highlight list. A limit of zero
// or less means no cutoff.
func TopHighlights(ranked []string, limit int) []string {
	if limit <= 0 || len(ranked) <= limit {
		return ranked
	}
	return ranked[:limit]
}
