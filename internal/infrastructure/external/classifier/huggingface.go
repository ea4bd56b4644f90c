package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/sentimeter-team/sentimeter/internal/domain/entities"
	"github.com/sentimeter-team/sentimeter/pkg/config"
)

// HuggingFaceClassifier scores sentences through a hosted inference endpoint
// running a 1-5 star sentiment model. It implements the pipeline's
// Classifier capability with an explicit lifecycle: Initialize warms the
// model up once at startup, Shutdown drops idle connections.
type HuggingFaceClassifier struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// NewHuggingFaceClassifier creates a classifier from the capability config.
func NewHuggingFaceClassifier(cfg *config.ClassifierConfig, logger *zap.Logger) *HuggingFaceClassifier {
	return &HuggingFaceClassifier{
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// classifyRequest is the inference API payload
type classifyRequest struct {
	Inputs string `json:"inputs"`
}

// labelScore is one candidate label with its confidence
type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Initialize sends a warm-up request so the hosted model is loaded before
// the first real analysis. Cold models answer 503 while loading; retry until
// the model is up or the context expires.
func (c *HuggingFaceClassifier) Initialize(ctx context.Context) error {
	warmup := func() error {
		_, err := c.classifyOnce(ctx, "warm up")
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 15 * time.Second
	bo.MaxElapsedTime = 2 * time.Minute

	if err := backoff.Retry(warmup, backoff.WithContext(bo, ctx)); err != nil {
		return fmt.Errorf("classifier warm-up failed: %w", err)
	}

	if c.logger != nil {
		c.logger.Info("sentiment classifier ready", zap.String("model", c.model))
	}
	return nil
}

// Shutdown releases pooled connections. The hosted endpoint itself has no
// teardown protocol.
func (c *HuggingFaceClassifier) Shutdown(ctx context.Context) error {
	c.client.CloseIdleConnections()
	return nil
}

// Classify returns the star rating (1-5) for one sentence. Transient
// failures (5xx, network) are retried with exponential backoff; anything
// that survives the retries surfaces as an error so the caller can abort
// the batch instead of silently scoring neutral.
func (c *HuggingFaceClassifier) Classify(ctx context.Context, sentence string) (int, error) {
	var rating int

	attempt := func() error {
		r, err := c.classifyOnce(ctx, sentence)
		if err != nil {
			return err
		}
		rating = r
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = 20 * time.Second

	if err := backoff.Retry(attempt, backoff.WithContext(bo, ctx)); err != nil {
		return 0, fmt.Errorf("%w: %v", entities.ErrClassifierUnavailable, err)
	}
	return rating, nil
}

// classifyOnce performs a single inference call.
func (c *HuggingFaceClassifier) classifyOnce(ctx context.Context, sentence string) (int, error) {
	b, err := json.Marshal(classifyRequest{Inputs: sentence})
	if err != nil {
		return 0, backoff.Permanent(err)
	}

	endpoint := fmt.Sprintf("%s/models/%s", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return 0, backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("inference endpoint returned status %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return 0, backoff.Permanent(fmt.Errorf("inference endpoint returned status %d: %s", resp.StatusCode, string(body)))
	}

	// The API answers with one candidate list per input.
	var out [][]labelScore
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, backoff.Permanent(fmt.Errorf("malformed inference response: %w", err))
	}
	if len(out) == 0 || len(out[0]) == 0 {
		return 0, backoff.Permanent(fmt.Errorf("empty inference response"))
	}

	best := out[0][0]
	for _, cand := range out[0][1:] {
		if cand.Score > best.Score {
			best = cand
		}
	}

	rating, err := parseStarLabel(best.Label)
	if err != nil {
		return 0, backoff.Permanent(err)
	}
	return rating, nil
}

// parseStarLabel reads the leading digit of labels like "4 stars". The model
// family encodes its rating as the first character of the label.
func parseStarLabel(label string) (int, error) {
	if label == "" {
		return 0, fmt.Errorf("empty label in inference response")
	}
	rating, err := strconv.Atoi(label[:1])
	if err != nil || !entities.ValidRating(rating) {
		return 0, fmt.Errorf("unexpected label %q in inference response", label)
	}
	return rating, nil
}
