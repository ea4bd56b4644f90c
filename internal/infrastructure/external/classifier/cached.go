package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/sentimeter-team/sentimeter/internal/infrastructure/cache"
	"github.com/sentimeter-team/sentimeter/internal/usecase/sentiment"
)

// CachedClassifier wraps a Classifier with a rating cache keyed by the exact
// sentence text. Identical sentences hit the cache; anything else goes to
// the backend. Cache failures degrade to a plain classify call, they never
// fail an analysis. Aggregation stays order-independent, so serving some
// sentences from cache cannot change any numeric result.
type CachedClassifier struct {
	backend sentiment.Classifier
	store   cache.Store
	ttl     time.Duration
	logger  *zap.Logger
}

// NewCachedClassifier wraps backend with the given store.
func NewCachedClassifier(backend sentiment.Classifier, store cache.Store, ttl time.Duration, logger *zap.Logger) *CachedClassifier {
	return &CachedClassifier{
		backend: backend,
		store:   store,
		ttl:     ttl,
		logger:  logger,
	}
}

// Initialize delegates to the backend.
func (c *CachedClassifier) Initialize(ctx context.Context) error {
	return c.backend.Initialize(ctx)
}

// Shutdown closes the cache and the backend.
func (c *CachedClassifier) Shutdown(ctx context.Context) error {
	if err := c.store.Close(); err != nil && c.logger != nil {
		c.logger.Warn("failed to close classify cache", zap.Error(err))
	}
	return c.backend.Shutdown(ctx)
}

// Classify serves the rating from cache when the exact sentence was scored
// before, otherwise asks the backend and stores the result.
func (c *CachedClassifier) Classify(ctx context.Context, sentence string) (int, error) {
	key := cacheKey(sentence)

	if val, ok, err := c.store.Get(ctx, key); err != nil {
		if c.logger != nil {
			c.logger.Warn("classify cache read failed", zap.Error(err))
		}
	} else if ok {
		if rating, convErr := strconv.Atoi(val); convErr == nil {
			return rating, nil
		}
	}

	rating, err := c.backend.Classify(ctx, sentence)
	if err != nil {
		return 0, err
	}

	if err := c.store.Set(ctx, key, strconv.Itoa(rating), c.ttl); err != nil && c.logger != nil {
		c.logger.Warn("classify cache write failed", zap.Error(err))
	}
	return rating, nil
}

// cacheKey hashes the sentence so arbitrary text maps to a bounded key.
func cacheKey(sentence string) string {
	sum := sha256.Sum256([]byte(sentence))
	return "classify:" + hex.EncodeToString(sum[:])
}
