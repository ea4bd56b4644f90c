package extractor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sentimeter-team/sentimeter/internal/domain/entities"
	"github.com/sentimeter-team/sentimeter/pkg/config"
)

func newTestExtractor(serverURL string) *PDFToolsExtractor {
	cfg := &config.ExtractorConfig{
		URL:     serverURL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	}
	return NewPDFToolsExtractor(cfg, nil)
}

func TestExtractText_PlainTextPassthrough(t *testing.T) {
	e := newTestExtractor("http://unused.invalid")

	text, err := e.ExtractText(context.Background(), []byte("  hello there  "), "notes.txt")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if text != "hello there" {
		t.Errorf("text = %q, want trimmed passthrough", text)
	}
}

func TestExtractText_InvalidUTF8TextFile(t *testing.T) {
	e := newTestExtractor("http://unused.invalid")

	_, err := e.ExtractText(context.Background(), []byte{0xff, 0xfe, 0xfd}, "garbage.txt")
	if !errors.Is(err, entities.ErrNoTextExtracted) {
		t.Errorf("expected ErrNoTextExtracted, got %v", err)
	}
}

func TestExtractText_EmptyContent(t *testing.T) {
	e := newTestExtractor("http://unused.invalid")

	_, err := e.ExtractText(context.Background(), nil, "empty.pdf")
	if !errors.Is(err, entities.ErrNoTextExtracted) {
		t.Errorf("expected ErrNoTextExtracted, got %v", err)
	}
}

func TestExtractText_ServiceSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/extract" {
			t.Errorf("path = %s, want /extract", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization header = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if _, fh, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		} else if fh.Filename != "report.pdf" {
			t.Errorf("filename = %q", fh.Filename)
		}
		w.Write([]byte(`{"text": "Extracted body text.", "pages": 3}`))
	}))
	defer server.Close()

	text, err := newTestExtractor(server.URL).ExtractText(context.Background(), []byte("%PDF-1.7"), "report.pdf")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if text != "Extracted body text." {
		t.Errorf("text = %q", text)
	}
}

func TestExtractText_ServiceFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "cannot parse document", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).ExtractText(context.Background(), []byte("%PDF-1.7"), "broken.pdf")
	if !errors.Is(err, entities.ErrNoTextExtracted) {
		t.Errorf("expected ErrNoTextExtracted, got %v", err)
	}
}

func TestExtractText_ServiceReturnsEmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text": "   ", "pages": 1}`))
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).ExtractText(context.Background(), []byte("%PDF-1.7"), "scanned.pdf")
	if !errors.Is(err, entities.ErrNoTextExtracted) {
		t.Errorf("expected ErrNoTextExtracted, got %v", err)
	}
}
