package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sentimeter-team/sentimeter/internal/domain/entities"
	"github.com/sentimeter-team/sentimeter/internal/usecase/sentiment"
)

// TextExtractor is the external capability that turns uploaded document
// bytes into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, content []byte, filename string) (string, error)
}

// Archiver optionally stores raw uploads for operators. Best effort only.
type Archiver interface {
	Archive(ctx context.Context, analysisID, filename string, content []byte, contentType string) (string, error)
}

// Service is the document pipeline orchestrator. One call to Analyze walks
// the whole state machine: Received, TextExtracted, Segmented, Scored,
// Aggregated, Complete, with Failed reachable from any state. Failures are
// fatal for the request; there is never a partial result.
type Service struct {
	extractor     TextExtractor
	analyzer      *sentiment.Analyzer
	archiver      Archiver // nil when archival is disabled
	maxHighlights int
	logger        *zap.Logger
}

// NewService constructs a document analysis service.
func NewService(extractor TextExtractor, analyzer *sentiment.Analyzer, archiver Archiver, maxHighlights int, logger *zap.Logger) *Service {
	return &Service{
		extractor:     extractor,
		analyzer:      analyzer,
		archiver:      archiver,
		maxHighlights: maxHighlights,
		logger:        logger,
	}
}

// Analyze runs the full document pipeline and returns the analysis result.
func (s *Service) Analyze(ctx context.Context, content []byte, filename string) (*entities.AnalysisResult, error) {
	job := entities.NewAnalysisJob(entities.JobChannelDocument, filename)

	if s.logger != nil {
		s.logger.Info("document analysis started",
			zap.String("job_id", job.ID.String()),
			zap.String("filename", filename),
			zap.Int("bytes", len(content)),
		)
	}

	text, err := s.extractor.ExtractText(ctx, content, filename)
	if err != nil {
		if !errors.Is(err, entities.ErrNoTextExtracted) {
			err = fmt.Errorf("%w: %v", entities.ErrNoTextExtracted, err)
		}
		return nil, s.fail(job, entities.FailureNoTextExtracted, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, s.fail(job, entities.FailureNoTextExtracted, entities.ErrNoTextExtracted)
	}
	job.Advance(entities.JobStateTextExtracted)

	sentences := sentiment.SegmentText(text)
	if len(sentences) == 0 {
		return nil, s.fail(job, entities.FailureNoContent, entities.ErrNoContent)
	}
	job.Advance(entities.JobStateSegmented)

	analysis, err := s.analyzer.ScoreSentences(ctx, sentences)
	if err != nil {
		if errors.Is(err, entities.ErrNoContent) {
			return nil, s.fail(job, entities.FailureNoContent, err)
		}
		return nil, s.fail(job, entities.FailureClassifierError, err)
	}
	job.Advance(entities.JobStateScored)
	job.Advance(entities.JobStateAggregated)

	result := entities.NewAnalysisResult(
		[]entities.SentimentResult{{
			Text:       entities.Excerpt(text),
			Score:      analysis.Score,
			Highlights: sentiment.TopHighlights(analysis.Highlights, s.maxHighlights),
		}},
		map[string]interface{}{"filename": filename},
	)
	job.Advance(entities.JobStateComplete)

	s.archive(result.DocumentID, filename, content)

	if s.logger != nil {
		s.logger.Info("document analysis complete",
			zap.String("job_id", job.ID.String()),
			zap.String("document_id", result.DocumentID),
			zap.Int("sentences", len(sentences)),
			zap.Duration("elapsed", job.Elapsed()),
		)
	}
	return result, nil
}

// fail marks the job failed and logs the reason before handing the error up.
func (s *Service) fail(job *entities.AnalysisJob, reason string, err error) error {
	job.Fail(reason)
	if s.logger != nil {
		s.logger.Error("document analysis failed",
			zap.String("job_id", job.ID.String()),
			zap.String("reason", reason),
			zap.Error(err),
		)
	}
	return err
}

// archive stores the raw upload in the background when archival is enabled.
// The analysis result does not wait for it and cannot be failed by it.
func (s *Service) archive(analysisID, filename string, content []byte) {
	if s.archiver == nil {
		return
	}
	buf := make([]byte, len(content))
	copy(buf, content)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.archiver.Archive(ctx, analysisID, filename, buf, contentTypeFor(filename)); err != nil && s.logger != nil {
			s.logger.Warn("upload archival failed",
				zap.String("document_id", analysisID),
				zap.Error(err),
			)
		}
	}()
}

func contentTypeFor(filename string) string {
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(strings.ToLower(filename), ".txt"):
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
