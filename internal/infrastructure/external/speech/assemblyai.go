package speech

import (
	"context"
	"fmt"
	"os"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"

	"github.com/sentimeter-team/sentimeter/internal/domain/entities"
	"github.com/sentimeter-team/sentimeter/internal/usecase/sentiment"
	"github.com/sentimeter-team/sentimeter/pkg/config"
)

// WindowCutter extracts one time window from an audio file as a wav the
// transcription backend accepts.
type WindowCutter interface {
	CutWindow(ctx context.Context, path string, start, end float64) (string, error)
}

// AssemblyAITranscriber transcribes audio windows through AssemblyAI. Each
// window is cut from the source file, uploaded, and transcribed
// synchronously. "No speech detected" is an empty transcript, not an error.
type AssemblyAITranscriber struct {
	client *aai.Client
	cutter WindowCutter
	logger *zap.Logger
}

// NewAssemblyAITranscriber creates a transcriber from the capability config.
func NewAssemblyAITranscriber(cfg *config.SpeechConfig, cutter WindowCutter, logger *zap.Logger) *AssemblyAITranscriber {
	return &AssemblyAITranscriber{
		client: aai.NewClient(cfg.AssemblyAIKey),
		cutter: cutter,
		logger: logger,
	}
}

// TranscribeWindow transcribes the [w.Start, w.End) slice of the audio file.
func (t *AssemblyAITranscriber) TranscribeWindow(ctx context.Context, audioPath string, w sentiment.Window) (string, error) {
	cutPath, err := t.cutter.CutWindow(ctx, audioPath, w.Start, w.End)
	if err != nil {
		return "", fmt.Errorf("%w: cut [%v,%v): %v", entities.ErrTranscriptionFailed, w.Start, w.End, err)
	}
	defer os.Remove(cutPath)

	f, err := os.Open(cutPath)
	if err != nil {
		return "", fmt.Errorf("%w: open cut [%v,%v): %v", entities.ErrTranscriptionFailed, w.Start, w.End, err)
	}
	defer f.Close()

	transcript, err := t.client.Transcripts.TranscribeFromReader(ctx, f, nil)
	if err != nil {
		return "", fmt.Errorf("%w: [%v,%v): %v", entities.ErrTranscriptionFailed, w.Start, w.End, err)
	}
	if transcript.Status == aai.TranscriptStatusError {
		msg := ""
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return "", fmt.Errorf("%w: [%v,%v): %s", entities.ErrTranscriptionFailed, w.Start, w.End, msg)
	}

	if transcript.Text == nil {
		return "", nil
	}
	text := strings.TrimSpace(*transcript.Text)

	if t.logger != nil {
		t.logger.Debug("window transcribed",
			zap.Float64("start", w.Start),
			zap.Float64("end", w.End),
			zap.Int("chars", len(text)),
		)
	}
	return text, nil
}
