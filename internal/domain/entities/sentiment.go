package entities

// Rating bucket thresholds for the 1-5 star scale produced by the classifier.
// 1-2 counts as negative, 3 as neutral, 4-5 as positive.
const (
	RatingMin = 1
	RatingMax = 5

	negativeCeiling = 2
	neutralRating   = 3
)

// SentimentDistribution is the positive/negative/neutral breakdown over some
// scope (a single unit, one audio window, or a whole analysis). Each field is
// in [0,1]. It is a value type: created once per scoring operation and never
// mutated afterwards.
type SentimentDistribution struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

// NeutralFallback is the defined distribution for zero scorable content.
// Absence of content is not an error, it just carries no signal.
func NeutralFallback() SentimentDistribution {
	return SentimentDistribution{Positive: 0, Negative: 0, Neutral: 1}
}

// Compound returns the derived positive-minus-negative diagnostic. It is not
// part of the serialized output; callers that want a single spread number can
// compute it on demand.
func (d SentimentDistribution) Compound() float64 {
	return d.Positive - d.Negative
}

// IsPositive reports whether a star rating falls in the positive bucket.
func IsPositive(rating int) bool { return rating > neutralRating }

// IsNegative reports whether a star rating falls in the negative bucket.
func IsNegative(rating int) bool { return rating <= negativeCeiling }

// IsNeutral reports whether a star rating falls in the neutral bucket.
func IsNeutral(rating int) bool { return rating == neutralRating }

// ValidRating reports whether a classifier output is on the 1-5 scale.
func ValidRating(rating int) bool {
	return rating >= RatingMin && rating <= RatingMax
}

// ScoredSentence pairs a sentence with the discrete rating the classifier
// assigned to it. Scoped to a single aggregation call.
type ScoredSentence struct {
	Text   string
	Rating int
}
