package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sentimeter-team/sentimeter/internal/domain/entities"
	"github.com/sentimeter-team/sentimeter/internal/usecase/sentiment"
)

// Decoder probes uploaded audio containers.
type Decoder interface {
	Probe(ctx context.Context, path string) (entities.AudioInfo, error)
}

// Transcriber is the external speech-to-text capability, invoked once per
// time window. "No speech detected" is an empty transcript, not an error.
type Transcriber interface {
	TranscribeWindow(ctx context.Context, audioPath string, w sentiment.Window) (string, error)
}

// Archiver optionally stores raw uploads for operators. Best effort only.
type Archiver interface {
	Archive(ctx context.Context, analysisID, filename string, content []byte, contentType string) (string, error)
}

// Config tunes one audio service instance.
type Config struct {
	WindowSeconds float64       // width of each transcription window
	WindowTimeout time.Duration // deadline per window, 0 disables
	Workers       int           // concurrent windows in flight
	TmpDir        string        // where uploads are spooled, "" = os default
}

// Service is the audio pipeline orchestrator. Unlike the document path, a
// window whose transcription is empty or fails does not abort the analysis:
// it stays in the segment list with absent sentiment and is skipped by the
// overall aggregation. Only an undecodable container or an unavailable
// classifier is fatal.
type Service struct {
	decoder     Decoder
	transcriber Transcriber
	analyzer    *sentiment.Analyzer
	archiver    Archiver // nil when archival is disabled
	cfg         Config
	logger      *zap.Logger
}

// NewService constructs an audio analysis service.
func NewService(decoder Decoder, transcriber Transcriber, analyzer *sentiment.Analyzer, archiver Archiver, cfg Config, logger *zap.Logger) *Service {
	if cfg.WindowSeconds <= 0 {
		cfg.WindowSeconds = 30
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Service{
		decoder:     decoder,
		transcriber: transcriber,
		analyzer:    analyzer,
		archiver:    archiver,
		cfg:         cfg,
		logger:      logger,
	}
}

// windowOutcome is the per-window join record.
type windowOutcome struct {
	segment entities.TimedSegment
	fatal   error // classifier unavailability only
}

// Analyze runs the full audio pipeline and returns the analysis result.
func (s *Service) Analyze(ctx context.Context, content []byte, filename string) (*entities.AudioAnalysisResult, error) {
	job := entities.NewAnalysisJob(entities.JobChannelAudio, filename)

	if s.logger != nil {
		s.logger.Info("audio analysis started",
			zap.String("job_id", job.ID.String()),
			zap.String("filename", filename),
			zap.Int("bytes", len(content)),
		)
	}

	// Spool the upload so ffmpeg and the transcriber can seek it. A spool
	// failure is a local I/O problem, not a property of the upload.
	audioPath, err := s.spool(content, filename)
	if err != nil {
		job.Fail(entities.FailureInternal)
		if s.logger != nil {
			s.logger.Error("upload spool failed",
				zap.String("job_id", job.ID.String()),
				zap.Error(err),
			)
		}
		return nil, fmt.Errorf("spool upload: %w", err)
	}
	defer os.Remove(audioPath)

	info, err := s.decoder.Probe(ctx, audioPath)
	if err != nil {
		job.Fail(entities.FailureUndecodableAudio)
		if s.logger != nil {
			s.logger.Error("audio decode failed",
				zap.String("job_id", job.ID.String()),
				zap.Error(err),
			)
		}
		if !errors.Is(err, entities.ErrUndecodableAudio) {
			err = fmt.Errorf("%w: %v", entities.ErrUndecodableAudio, err)
		}
		return nil, err
	}
	job.Advance(entities.JobStateDecoded)

	windows := sentiment.SegmentAudio(info.Duration, s.cfg.WindowSeconds)
	job.Advance(entities.JobStateWindowed)

	outcomes := make([]windowOutcome, len(windows))
	sem := make(chan struct{}, s.cfg.Workers)
	var wg sync.WaitGroup

	for i, w := range windows {
		wg.Add(1)
		go func(i int, w sentiment.Window) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			outcomes[i] = s.processWindow(ctx, job.ID, audioPath, w)
		}(i, w)
	}
	wg.Wait()

	// The join point: every window either produced a segment or a fatal
	// classifier error before any aggregation happens.
	segments := make([]entities.TimedSegment, len(windows))
	var present []entities.SentimentDistribution
	for i, o := range outcomes {
		if o.fatal != nil {
			job.Fail(entities.FailureClassifierError)
			if s.logger != nil {
				s.logger.Error("audio analysis failed",
					zap.String("job_id", job.ID.String()),
					zap.String("reason", entities.FailureClassifierError),
					zap.Error(o.fatal),
				)
			}
			return nil, o.fatal
		}
		segments[i] = o.segment
		if o.segment.HasSentiment() {
			present = append(present, *o.segment.Sentiment)
		}
	}
	job.Advance(entities.JobStateScored)

	overall := sentiment.Combine(present)
	job.Advance(entities.JobStateAggregated)

	result := &entities.AudioAnalysisResult{
		FileName:         filename,
		Duration:         info.Duration,
		Segments:         segments,
		OverallSentiment: overall,
		Metadata: map[string]interface{}{
			"sample_rate": info.SampleRate,
			"channels":    info.Channels,
			"format":      formatFor(filename, info),
		},
	}
	job.Advance(entities.JobStateComplete)

	s.archive(job.ID.String(), filename, content)

	if s.logger != nil {
		s.logger.Info("audio analysis complete",
			zap.String("job_id", job.ID.String()),
			zap.Float64("duration", info.Duration),
			zap.Int("windows", len(windows)),
			zap.Int("scored_windows", len(present)),
			zap.Duration("elapsed", job.Elapsed()),
		)
	}
	return result, nil
}

// processWindow transcribes and scores one window. Transcription problems
// and empty transcripts degrade to an absent-sentiment segment; only
// classifier unavailability is reported as fatal.
func (s *Service) processWindow(ctx context.Context, jobID uuid.UUID, audioPath string, w sentiment.Window) windowOutcome {
	if s.cfg.WindowTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.WindowTimeout)
		defer cancel()
	}

	segment := entities.TimedSegment{StartTime: w.Start, EndTime: w.End}

	text, err := s.transcriber.TranscribeWindow(ctx, audioPath, w)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("window transcription failed",
				zap.String("job_id", jobID.String()),
				zap.Float64("start", w.Start),
				zap.Float64("end", w.End),
				zap.Error(err),
			)
		}
		return windowOutcome{segment: segment}
	}
	if strings.TrimSpace(text) == "" {
		return windowOutcome{segment: segment}
	}

	analysis, err := s.analyzer.AnalyzeText(ctx, text)
	if err != nil {
		if errors.Is(err, entities.ErrClassifierUnavailable) {
			// The window deadline expiring mid-classification is this
			// window's loss, not total classifier unavailability.
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				if s.logger != nil {
					s.logger.Warn("window scoring timed out",
						zap.String("job_id", jobID.String()),
						zap.Float64("start", w.Start),
						zap.Float64("end", w.End),
					)
				}
				return windowOutcome{segment: segment}
			}
			return windowOutcome{segment: segment, fatal: err}
		}
		// Transcript with no analyzable sentences scores as absent.
		return windowOutcome{segment: segment}
	}

	segment.Text = text
	score := analysis.Score
	segment.Sentiment = &score
	return windowOutcome{segment: segment}
}

// spool writes the upload to a temp file preserving the extension, which
// ffprobe uses as a container hint.
func (s *Service) spool(content []byte, filename string) (string, error) {
	dir := s.cfg.TmpDir
	if dir == "" {
		dir = os.TempDir()
	}
	f, err := os.CreateTemp(dir, "upload-*"+filepath.Ext(filename))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.Write(content); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// archive stores the raw upload in the background when archival is enabled.
func (s *Service) archive(analysisID, filename string, content []byte) {
	if s.archiver == nil {
		return
	}
	buf := make([]byte, len(content))
	copy(buf, content)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.archiver.Archive(ctx, analysisID, filename, buf, "application/octet-stream"); err != nil && s.logger != nil {
			s.logger.Warn("upload archival failed",
				zap.String("job_id", analysisID),
				zap.Error(err),
			)
		}
	}()
}

// formatFor reports the container format, preferring the filename extension
// the client used.
func formatFor(filename string, info entities.AudioInfo) string {
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."); ext != "" {
		return ext
	}
	return info.Format
}
