package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/sentimeter-team/sentimeter/internal/domain/entities"
	"github.com/sentimeter-team/sentimeter/pkg/config"
)

// PDFToolsExtractor extracts text from binary documents through the
// pdf-tools service. Plain-text uploads never leave the process; everything
// else (.pdf/.docx/.xlsx) is posted to the service's /extract endpoint.
type PDFToolsExtractor struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewPDFToolsExtractor creates an extractor from the capability config.
func NewPDFToolsExtractor(cfg *config.ExtractorConfig, logger *zap.Logger) *PDFToolsExtractor {
	return &PDFToolsExtractor{
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// extractResponse is the service's reply shape
type extractResponse struct {
	Text  string `json:"text"`
	Pages int    `json:"pages"`
}

// ExtractText returns the plain text content of an uploaded document.
// Unreadable or empty content yields entities.ErrNoTextExtracted.
func (e *PDFToolsExtractor) ExtractText(ctx context.Context, content []byte, filename string) (string, error) {
	if len(content) == 0 {
		return "", entities.ErrNoTextExtracted
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".txt" {
		return e.plainText(content)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return "", err
	}
	if _, err = fw.Write(content); err != nil {
		return "", err
	}
	if err = w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/extract", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entities.ErrNoTextExtracted, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: extractor %s: %s", entities.ErrNoTextExtracted, resp.Status, string(raw))
	}

	var out extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: extractor decode: %v", entities.ErrNoTextExtracted, err)
	}

	text := strings.TrimSpace(out.Text)
	if text == "" {
		return "", entities.ErrNoTextExtracted
	}

	if e.logger != nil {
		e.logger.Debug("document text extracted",
			zap.String("filename", filename),
			zap.Int("pages", out.Pages),
			zap.Int("chars", len(text)),
		)
	}
	return text, nil
}

// plainText handles .txt uploads locally.
func (e *PDFToolsExtractor) plainText(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", fmt.Errorf("%w: file is not valid UTF-8", entities.ErrNoTextExtracted)
	}
	text := strings.TrimSpace(string(content))
	if text == "" {
		return "", entities.ErrNoTextExtracted
	}
	return text, nil
}
