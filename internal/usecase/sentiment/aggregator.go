package sentiment

import (
	"github.com/sentimeter-team/sentimeter/internal/domain/entities"
)

// Aggregate converts a batch of per-sentence star ratings into a normalized
// distribution: each bucket is its count divided by the total. The result is
// independent of rating order. Zero ratings is not an error; it yields the
// defined neutral fallback.
func Aggregate(ratings []int) entities.SentimentDistribution {
	total := len(ratings)
	if total == 0 {
		return entities.NeutralFallback()
	}

	var positive, negative, neutral int
	for _, r := range ratings {
		switch {
		case entities.IsPositive(r):
			positive++
		case entities.IsNegative(r):
			negative++
		default:
			neutral++
		}
	}

	return entities.SentimentDistribution{
		Positive: float64(positive) / float64(total),
		Negative: float64(negative) / float64(total),
		Neutral:  float64(neutral) / float64(total),
	}
}

// Combine merges several segment-level distributions into one overall
// distribution by taking the arithmetic mean of each field. Callers pass only
// distributions that carry a signal; absent segments are skipped before the
// call. Each distribution contributes equal weight, so a segment with many
// sentences cannot dominate a segment with few. An empty input yields the
// neutral fallback.
func Combine(dists []entities.SentimentDistribution) entities.SentimentDistribution {
	n := len(dists)
	if n == 0 {
		return entities.NeutralFallback()
	}

	var out entities.SentimentDistribution
	for _, d := range dists {
		out.Positive += d.Positive
		out.Negative += d.Negative
		out.Neutral += d.Neutral
	}
	out.Positive /= float64(n)
	out.Negative /= float64(n)
	out.Neutral /= float64(n)
	return out
}
