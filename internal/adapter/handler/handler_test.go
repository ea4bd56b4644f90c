package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sentimeter-team/sentimeter/internal/domain/entities"
	"github.com/sentimeter-team/sentimeter/internal/usecase/audio"
	"github.com/sentimeter-team/sentimeter/internal/usecase/document"
	"github.com/sentimeter-team/sentimeter/internal/usecase/sentiment"
	"github.com/sentimeter-team/sentimeter/pkg/config"
	pkgvalidator "github.com/sentimeter-team/sentimeter/pkg/validator"
)

type stubExtractor struct{}

func (stubExtractor) ExtractText(ctx context.Context, content []byte, filename string) (string, error) {
	return string(content), nil
}

type stubClassifier struct{}

func (stubClassifier) Initialize(ctx context.Context) error { return nil }
func (stubClassifier) Shutdown(ctx context.Context) error   { return nil }

func (stubClassifier) Classify(ctx context.Context, sentence string) (int, error) {
	return 4, nil
}

type stubDecoder struct{}

func (stubDecoder) Probe(ctx context.Context, path string) (entities.AudioInfo, error) {
	return entities.AudioInfo{Duration: 60, SampleRate: 16000, Channels: 1, Format: "wav"}, nil
}

type stubTranscriber struct{}

func (stubTranscriber) TranscribeWindow(ctx context.Context, audioPath string, w sentiment.Window) (string, error) {
	return "The quarterly numbers look encouraging.", nil
}

func testConfig() *config.Config {
	return &config.Config{
		Upload: config.UploadConfig{
			MaxDocumentSize:    1024,
			DocumentExtensions: []string{".pdf", ".docx", ".txt", ".xlsx"},
			AudioExtensions:    []string{".wav", ".mp3", ".m4a", ".ogg"},
		},
		Analysis: config.AnalysisConfig{
			WindowSeconds:   30,
			ClassifyWorkers: 2,
			MaxHighlights:   5,
		},
	}
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = pkgvalidator.New()
	return e
}

func newDocumentHandler(cfg *config.Config) *Document {
	analyzer := sentiment.NewAnalyzer(stubClassifier{}, cfg.Analysis.ClassifyWorkers, nil)
	svc := document.NewService(stubExtractor{}, analyzer, nil, cfg.Analysis.MaxHighlights, nil)
	return NewDocument(svc, cfg, nil)
}

func newAudioHandler(cfg *config.Config) *Audio {
	analyzer := sentiment.NewAnalyzer(stubClassifier{}, cfg.Analysis.ClassifyWorkers, nil)
	svc := audio.NewService(stubDecoder{}, stubTranscriber{}, analyzer, nil, audio.Config{
		WindowSeconds: cfg.Analysis.WindowSeconds,
		Workers:       cfg.Analysis.ClassifyWorkers,
	}, nil)
	return NewAudio(svc, cfg, nil)
}

func multipartUpload(t *testing.T, filename string, content []byte) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/print-media/analyze", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req, httptest.NewRecorder()
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestDocumentAnalyze_Success(t *testing.T) {
	e := newTestEcho()
	h := newDocumentHandler(testConfig())

	req, rec := multipartUpload(t, "review.txt", []byte("The release went smoothly. Everyone was pleased with it."))
	if err := h.Analyze(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	data, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no data envelope: %s", rec.Body.String())
	}
	if data["document_id"] == "" {
		t.Error("expected non-empty document_id")
	}
	results, ok := data["results"].([]interface{})
	if !ok || len(results) != 1 {
		t.Fatalf("expected 1 result, got %v", data["results"])
	}
}

func TestDocumentAnalyze_UnsupportedExtension(t *testing.T) {
	e := newTestEcho()
	h := newDocumentHandler(testConfig())

	req, rec := multipartUpload(t, "payload.exe", []byte("binary"))
	if err := h.Analyze(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["code"] != "unsupported_file_type" {
		t.Errorf("code = %v, want unsupported_file_type", body["code"])
	}
}

func TestDocumentAnalyze_FileTooLarge(t *testing.T) {
	e := newTestEcho()
	h := newDocumentHandler(testConfig())

	req, rec := multipartUpload(t, "big.txt", bytes.Repeat([]byte("a"), 2048))
	if err := h.Analyze(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
	if body := decodeBody(t, rec); body["code"] != "file_too_large" {
		t.Errorf("code = %v, want file_too_large", body["code"])
	}
}

func TestDocumentAnalyze_EmptyUpload(t *testing.T) {
	e := newTestEcho()
	h := newDocumentHandler(testConfig())

	req, rec := multipartUpload(t, "nothing.txt", nil)
	if err := h.Analyze(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["code"] != "empty_upload" {
		t.Errorf("code = %v, want empty_upload", body["code"])
	}
}

func TestDocumentAnalyze_MissingFileField(t *testing.T) {
	e := newTestEcho()
	h := newDocumentHandler(testConfig())

	req := httptest.NewRequest(http.MethodPost, "/v1/print-media/analyze", strings.NewReader(""))
	rec := httptest.NewRecorder()
	if err := h.Analyze(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAudioAnalyze_Success(t *testing.T) {
	e := newTestEcho()
	h := newAudioHandler(testConfig())

	req, rec := multipartUpload(t, "call.wav", []byte("riff"))
	if err := h.Analyze(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	data, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no data envelope: %s", rec.Body.String())
	}
	segments, ok := data["segments"].([]interface{})
	if !ok || len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %v", data["segments"])
	}
	if data["duration"] != float64(60) {
		t.Errorf("duration = %v, want 60", data["duration"])
	}
}

func TestAudioAnalyze_UnsupportedExtension(t *testing.T) {
	e := newTestEcho()
	h := newAudioHandler(testConfig())

	req, rec := multipartUpload(t, "notes.txt", []byte("not audio"))
	if err := h.Analyze(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["code"] != "unsupported_file_type" {
		t.Errorf("code = %v, want unsupported_file_type", body["code"])
	}
}
