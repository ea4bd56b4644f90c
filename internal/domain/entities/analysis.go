package entities

import (
	"time"

	"github.com/google/uuid"
)

// ExcerptLimit is the maximum number of characters of extracted text echoed
// back in a document result. Longer documents are truncated with an ellipsis.
const ExcerptLimit = 1000

// SentimentResult is one analyzed excerpt of a document: the (possibly
// truncated) text, its aggregated distribution and the justification
// sentences that support the verdict.
type SentimentResult struct {
	Text       string                `json:"text"`
	Score      SentimentDistribution `json:"score"`
	Highlights []string              `json:"highlights"`
}

// AnalysisResult is the full response for one document analysis. The
// DocumentID is a fresh token per analysis; it is never reused and never
// stored beyond the response.
type AnalysisResult struct {
	DocumentID string                 `json:"document_id"`
	Results    []SentimentResult      `json:"results"`
	Metadata   map[string]interface{} `json:"metadata"`
	Timestamp  time.Time              `json:"timestamp"`
}

// NewAnalysisResult creates an AnalysisResult with a fresh identifier and
// creation timestamp.
func NewAnalysisResult(results []SentimentResult, metadata map[string]interface{}) *AnalysisResult {
	return &AnalysisResult{
		DocumentID: uuid.New().String(),
		Results:    results,
		Metadata:   metadata,
		Timestamp:  time.Now(),
	}
}

// Excerpt truncates extracted text for display. The full text still feeds the
// analysis; only the echoed excerpt is cut.
func Excerpt(text string) string {
	runes := []rune(text)
	if len(runes) > ExcerptLimit {
		return string(runes[:ExcerptLimit]) + "..."
	}
	return text
}
