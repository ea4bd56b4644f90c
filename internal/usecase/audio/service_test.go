package audio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sentimeter-team/sentimeter/internal/domain/entities"
	"github.com/sentimeter-team/sentimeter/internal/usecase/sentiment"
)

type stubDecoder struct {
	info entities.AudioInfo
	err  error
}

func (d *stubDecoder) Probe(ctx context.Context, path string) (entities.AudioInfo, error) {
	return d.info, d.err
}

// stubTranscriber returns transcripts keyed by window start time. A missing
// key means the window fails, an empty value means silence.
type stubTranscriber struct {
	transcripts map[float64]string
}

func (tr *stubTranscriber) TranscribeWindow(ctx context.Context, audioPath string, w sentiment.Window) (string, error) {
	text, ok := tr.transcripts[w.Start]
	if !ok {
		return "", errors.New("transcription timed out")
	}
	return text, nil
}

type stubClassifier struct {
	err error
}

func (c *stubClassifier) Initialize(ctx context.Context) error { return nil }
func (c *stubClassifier) Shutdown(ctx context.Context) error   { return nil }

func (c *stubClassifier) Classify(ctx context.Context, sentence string) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	lower := strings.ToLower(sentence)
	switch {
	case strings.Contains(lower, "awful"):
		return 1, nil
	case strings.Contains(lower, "love"):
		return 5, nil
	default:
		return 3, nil
	}
}

func newTestService(decoder Decoder, transcriber Transcriber, classifier sentiment.Classifier) *Service {
	analyzer := sentiment.NewAnalyzer(classifier, 2, nil)
	cfg := Config{WindowSeconds: 30, Workers: 2, TmpDir: ""}
	return NewService(decoder, transcriber, analyzer, nil, cfg, nil)
}

func TestAnalyze_PartialTranscription(t *testing.T) {
	decoder := &stubDecoder{info: entities.AudioInfo{Duration: 45, SampleRate: 16000, Channels: 1, Format: "wav"}}
	transcriber := &stubTranscriber{transcripts: map[float64]string{
		0: "I love this service. The call quality was fine.",
		// window at 30s missing, transcription fails
	}}
	svc := newTestService(decoder, transcriber, &stubClassifier{})

	result, err := svc.Analyze(context.Background(), []byte("riff"), "call.wav")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(result.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(result.Segments))
	}

	first, second := result.Segments[0], result.Segments[1]
	if !first.HasSentiment() {
		t.Fatal("first segment should carry sentiment")
	}
	if second.HasSentiment() {
		t.Error("failed window should have absent sentiment")
	}
	if second.StartTime != 30 || second.EndTime != 45 {
		t.Errorf("second window bounds = [%f, %f], want [30, 45]", second.StartTime, second.EndTime)
	}

	// With a single scored window the overall sentiment equals it exactly.
	if result.OverallSentiment != *first.Sentiment {
		t.Errorf("overall %+v != only scored window %+v", result.OverallSentiment, *first.Sentiment)
	}
	if result.Duration != 45 {
		t.Errorf("duration = %f, want 45", result.Duration)
	}
	if result.Metadata["sample_rate"] != 16000 {
		t.Errorf("metadata sample_rate = %v", result.Metadata["sample_rate"])
	}
}

func TestAnalyze_AllWindowsAbsent(t *testing.T) {
	decoder := &stubDecoder{info: entities.AudioInfo{Duration: 60, Format: "mp3"}}
	transcriber := &stubTranscriber{transcripts: map[float64]string{0: "", 30: ""}}
	svc := newTestService(decoder, transcriber, &stubClassifier{})

	result, err := svc.Analyze(context.Background(), []byte("id3"), "silence.mp3")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(result.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(result.Segments))
	}
	for i, seg := range result.Segments {
		if seg.HasSentiment() {
			t.Errorf("segment %d should be absent", i)
		}
	}
	want := entities.SentimentDistribution{Neutral: 1}
	if result.OverallSentiment != want {
		t.Errorf("overall = %+v, want neutral fallback", result.OverallSentiment)
	}
}

func TestAnalyze_UndecodableAudio(t *testing.T) {
	decoder := &stubDecoder{err: fmt.Errorf("%w: no audio stream", entities.ErrUndecodableAudio)}
	svc := newTestService(decoder, &stubTranscriber{}, &stubClassifier{})

	result, err := svc.Analyze(context.Background(), []byte("junk"), "image.ogg")
	if result != nil {
		t.Error("expected no result for undecodable input")
	}
	if !errors.Is(err, entities.ErrUndecodableAudio) {
		t.Errorf("expected ErrUndecodableAudio, got %v", err)
	}
}

func TestAnalyze_SpoolFailureIsNotUndecodable(t *testing.T) {
	decoder := &stubDecoder{info: entities.AudioInfo{Duration: 30}}
	analyzer := sentiment.NewAnalyzer(&stubClassifier{}, 2, nil)
	svc := NewService(decoder, &stubTranscriber{}, analyzer, nil, Config{
		WindowSeconds: 30,
		Workers:       1,
		TmpDir:        "/nonexistent/spool/dir",
	}, nil)

	result, err := svc.Analyze(context.Background(), []byte("riff"), "call.wav")
	if result != nil {
		t.Error("expected no result when the upload cannot be spooled")
	}
	if err == nil {
		t.Fatal("expected an error")
	}
	// Local I/O trouble must not be reported as a bad upload.
	if errors.Is(err, entities.ErrUndecodableAudio) {
		t.Errorf("spool failure reported as undecodable audio: %v", err)
	}
}

func TestAnalyze_ClassifierFailureFatal(t *testing.T) {
	decoder := &stubDecoder{info: entities.AudioInfo{Duration: 30}}
	transcriber := &stubTranscriber{transcripts: map[float64]string{0: "Everything was awful today."}}
	svc := newTestService(decoder, transcriber, &stubClassifier{err: errors.New("model down")})

	result, err := svc.Analyze(context.Background(), []byte("riff"), "call.wav")
	if result != nil {
		t.Error("expected no result when the classifier is unavailable")
	}
	if !errors.Is(err, entities.ErrClassifierUnavailable) {
		t.Errorf("expected ErrClassifierUnavailable, got %v", err)
	}
}

func TestAnalyze_ZeroDuration(t *testing.T) {
	decoder := &stubDecoder{info: entities.AudioInfo{Duration: 0, Format: "wav"}}
	svc := newTestService(decoder, &stubTranscriber{}, &stubClassifier{})

	result, err := svc.Analyze(context.Background(), []byte("riff"), "empty.wav")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(result.Segments) != 0 {
		t.Errorf("expected no segments, got %d", len(result.Segments))
	}
	want := entities.SentimentDistribution{Neutral: 1}
	if result.OverallSentiment != want {
		t.Errorf("overall = %+v, want neutral fallback", result.OverallSentiment)
	}
}

// blockingTranscriber never answers until the window deadline cancels it.
type blockingTranscriber struct{}

func (blockingTranscriber) TranscribeWindow(ctx context.Context, audioPath string, w sentiment.Window) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestAnalyze_WindowTimeoutDegradesToAbsent(t *testing.T) {
	decoder := &stubDecoder{info: entities.AudioInfo{Duration: 30, Format: "wav"}}
	analyzer := sentiment.NewAnalyzer(&stubClassifier{}, 2, nil)
	svc := NewService(decoder, blockingTranscriber{}, analyzer, nil, Config{
		WindowSeconds: 30,
		WindowTimeout: 10 * time.Millisecond,
		Workers:       2,
	}, nil)

	result, err := svc.Analyze(context.Background(), []byte("riff"), "slow.wav")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(result.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(result.Segments))
	}
	if result.Segments[0].HasSentiment() {
		t.Error("timed-out window should have absent sentiment")
	}
	want := entities.SentimentDistribution{Neutral: 1}
	if result.OverallSentiment != want {
		t.Errorf("overall = %+v, want neutral fallback", result.OverallSentiment)
	}
}

// stallingClassifier blocks on sentences containing the marker word until
// the window deadline cancels it, and scores everything else normally.
type stallingClassifier struct {
	marker string
}

func (c *stallingClassifier) Initialize(ctx context.Context) error { return nil }
func (c *stallingClassifier) Shutdown(ctx context.Context) error   { return nil }

func (c *stallingClassifier) Classify(ctx context.Context, sentence string) (int, error) {
	if strings.Contains(strings.ToLower(sentence), c.marker) {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	return 5, nil
}

func TestAnalyze_ScoringTimeoutDegradesWindow(t *testing.T) {
	decoder := &stubDecoder{info: entities.AudioInfo{Duration: 60, Format: "wav"}}
	transcriber := &stubTranscriber{transcripts: map[float64]string{
		0:  "I love how fast this went.",
		30: "This part is slow to think about.",
	}}
	analyzer := sentiment.NewAnalyzer(&stallingClassifier{marker: "slow"}, 2, nil)
	svc := NewService(decoder, transcriber, analyzer, nil, Config{
		WindowSeconds: 30,
		WindowTimeout: 20 * time.Millisecond,
		Workers:       2,
	}, nil)

	result, err := svc.Analyze(context.Background(), []byte("riff"), "call.wav")
	if err != nil {
		t.Fatalf("a window deadline must not abort the request: %v", err)
	}
	if len(result.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(result.Segments))
	}
	if !result.Segments[0].HasSentiment() {
		t.Error("window that scored in time should carry sentiment")
	}
	if result.Segments[1].HasSentiment() {
		t.Error("window that timed out during scoring should be absent")
	}
	if result.OverallSentiment != *result.Segments[0].Sentiment {
		t.Errorf("overall %+v != only scored window %+v", result.OverallSentiment, *result.Segments[0].Sentiment)
	}
}

func TestAnalyze_WindowOrderPreserved(t *testing.T) {
	decoder := &stubDecoder{info: entities.AudioInfo{Duration: 120, Format: "wav"}}
	transcriber := &stubTranscriber{transcripts: map[float64]string{
		0:  "I love the new dashboard a lot.",
		30: "The export still feels awful to use.",
		60: "We reviewed the roadmap together.",
		90: "I love where this is heading.",
	}}
	svc := newTestService(decoder, transcriber, &stubClassifier{})

	result, err := svc.Analyze(context.Background(), []byte("riff"), "meeting.wav")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(result.Segments) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(result.Segments))
	}
	for i, seg := range result.Segments {
		wantStart := float64(i * 30)
		if seg.StartTime != wantStart {
			t.Errorf("segment %d start = %f, want %f", i, seg.StartTime, wantStart)
		}
		if !seg.HasSentiment() {
			t.Errorf("segment %d should carry sentiment", i)
		}
	}
	if !strings.Contains(result.Segments[1].Text, "awful") {
		t.Errorf("segment texts reordered: %q", result.Segments[1].Text)
	}
}
