package entities

// AudioInfo is what the decoder reports about an audio container before any
// transcription happens.
type AudioInfo struct {
	Duration   float64
	SampleRate int
	Channels   int
	Format     string
}

// TimedSegment is one fixed-width slice of the recording timeline with its
// transcript and sentiment. Sentiment is nil when transcription for the
// window was empty or failed; the timing information is still meaningful
// output, so such windows stay in the segment list.
type TimedSegment struct {
	StartTime float64                `json:"start_time"`
	EndTime   float64                `json:"end_time"`
	Text      string                 `json:"text,omitempty"`
	Sentiment *SentimentDistribution `json:"sentiment,omitempty"`
}

// HasSentiment reports whether the segment carries a scored distribution.
func (s TimedSegment) HasSentiment() bool { return s.Sentiment != nil }

// AudioAnalysisResult is the full response for one audio analysis. Segments
// are ordered by start time and together cover the whole recording.
type AudioAnalysisResult struct {
	FileName         string                 `json:"file_name"`
	Duration         float64                `json:"duration"`
	Segments         []TimedSegment         `json:"segments"`
	OverallSentiment SentimentDistribution  `json:"overall_sentiment"`
	Metadata         map[string]interface{} `json:"metadata"`
}
