package analysis

import "time"

// SentimentResponse is the three-way distribution in responses. Values are
// fractions in [0, 1] that sum to 1.
type SentimentResponse struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

// DocumentResultResponse is one analyzed text unit of a document.
type DocumentResultResponse struct {
	Text       string            `json:"text"`
	Score      SentimentResponse `json:"score"`
	Highlights []string          `json:"highlights"`
}

// DocumentAnalysisResponse is the full response for a document analysis.
type DocumentAnalysisResponse struct {
	DocumentID string                   `json:"document_id"`
	Results    []DocumentResultResponse `json:"results"`
	Metadata   map[string]interface{}   `json:"metadata"`
	Timestamp  time.Time                `json:"timestamp"`
}

// SegmentResponse is one time window of an audio analysis. Sentiment is
// omitted for windows where transcription produced nothing.
type SegmentResponse struct {
	StartTime float64            `json:"start_time"`
	EndTime   float64            `json:"end_time"`
	Text      string             `json:"text,omitempty"`
	Sentiment *SentimentResponse `json:"sentiment,omitempty"`
}

// AudioAnalysisResponse is the full response for an audio analysis.
type AudioAnalysisResponse struct {
	FileName         string                 `json:"file_name"`
	Duration         float64                `json:"duration"`
	Segments         []SegmentResponse      `json:"segments"`
	OverallSentiment SentimentResponse      `json:"overall_sentiment"`
	Metadata         map[string]interface{} `json:"metadata"`
}
