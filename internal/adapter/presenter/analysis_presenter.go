package presenter

import (
	"github.com/sentimeter-team/sentimeter/internal/adapter/dto/analysis"
	"github.com/sentimeter-team/sentimeter/internal/domain/entities"
)

// ToSentimentResponse converts a distribution entity to its DTO
func ToSentimentResponse(d entities.SentimentDistribution) analysis.SentimentResponse {
	return analysis.SentimentResponse{
		Positive: d.Positive,
		Negative: d.Negative,
		Neutral:  d.Neutral,
	}
}

// ToDocumentAnalysisResponse converts an AnalysisResult entity to its DTO
func ToDocumentAnalysisResponse(r *entities.AnalysisResult) *analysis.DocumentAnalysisResponse {
	if r == nil {
		return nil
	}

	results := make([]analysis.DocumentResultResponse, len(r.Results))
	for i, res := range r.Results {
		highlights := res.Highlights
		if highlights == nil {
			highlights = []string{}
		}
		results[i] = analysis.DocumentResultResponse{
			Text:       res.Text,
			Score:      ToSentimentResponse(res.Score),
			Highlights: highlights,
		}
	}

	return &analysis.DocumentAnalysisResponse{
		DocumentID: r.DocumentID,
		Results:    results,
		Metadata:   r.Metadata,
		Timestamp:  r.Timestamp,
	}
}

// ToAudioAnalysisResponse converts an AudioAnalysisResult entity to its DTO
func ToAudioAnalysisResponse(r *entities.AudioAnalysisResult) *analysis.AudioAnalysisResponse {
	if r == nil {
		return nil
	}

	segments := make([]analysis.SegmentResponse, len(r.Segments))
	for i, seg := range r.Segments {
		segments[i] = analysis.SegmentResponse{
			StartTime: seg.StartTime,
			EndTime:   seg.EndTime,
			Text:      seg.Text,
		}
		if seg.Sentiment != nil {
			s := ToSentimentResponse(*seg.Sentiment)
			segments[i].Sentiment = &s
		}
	}

	return &analysis.AudioAnalysisResponse{
		FileName:         r.FileName,
		Duration:         r.Duration,
		Segments:         segments,
		OverallSentiment: ToSentimentResponse(r.OverallSentiment),
		Metadata:         r.Metadata,
	}
}
