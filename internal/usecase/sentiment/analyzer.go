package sentiment

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/sentimeter-team/sentimeter/internal/domain/entities"
)

// Classifier is the external sentence-sentiment capability. Implementations
// wrap whatever scoring backend is configured; the pipeline only ever sees
// discrete 1-5 star ratings. Initialize and Shutdown bound the capability's
// lifecycle: main calls them once, orchestrators only call Classify.
type Classifier interface {
	Initialize(ctx context.Context) error
	Classify(ctx context.Context, sentence string) (int, error)
	Shutdown(ctx context.Context) error
}

// TextAnalysis is the scored outcome for one body of text: the per-sentence
// ratings in input order, the aggregated distribution, and the full ranked
// highlight order.
type TextAnalysis struct {
	Scored     []entities.ScoredSentence
	Score      entities.SentimentDistribution
	Highlights []string
}

// Analyzer scores text through the injected classifier. It holds no
// per-request state; one instance serves all concurrent analyses.
type Analyzer struct {
	classifier Classifier
	workers    int
	logger     *zap.Logger
}

// NewAnalyzer constructs an Analyzer with a bounded classification worker
// count.
func NewAnalyzer(classifier Classifier, workers int, logger *zap.Logger) *Analyzer {
	if workers < 1 {
		workers = 1
	}
	return &Analyzer{
		classifier: classifier,
		workers:    workers,
		logger:     logger,
	}
}

// AnalyzeText segments text into sentences, classifies every sentence, and
// aggregates the ratings into a distribution plus ranked highlights. Text
// that segments into zero sentences returns entities.ErrNoContent.
func (a *Analyzer) AnalyzeText(ctx context.Context, text string) (*TextAnalysis, error) {
	sentences := SegmentText(text)
	if len(sentences) == 0 {
		return nil, entities.ErrNoContent
	}
	return a.ScoreSentences(ctx, sentences)
}

// ScoreSentences classifies every sentence and aggregates the ratings.
//
// Sentences are classified concurrently under a worker semaphore, but the
// result is only assembled after every in-flight classification joined. Any
// classifier failure cancels the siblings and fails the whole call: the
// aggregation either sees a fully scored set or nothing.
func (a *Analyzer) ScoreSentences(ctx context.Context, sentences []string) (*TextAnalysis, error) {
	if len(sentences) == 0 {
		return nil, entities.ErrNoContent
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ratings := make([]int, len(sentences))
	errs := make([]error, len(sentences))
	sem := make(chan struct{}, a.workers)
	var wg sync.WaitGroup

	for i, sentence := range sentences {
		wg.Add(1)
		go func(i int, sentence string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			}

			rating, err := a.classifier.Classify(ctx, sentence)
			if err != nil {
				errs[i] = err
				cancel() // abort siblings, the batch is lost anyway
				return
			}
			if !entities.ValidRating(rating) {
				errs[i] = fmt.Errorf("classifier returned rating %d outside 1-%d", rating, entities.RatingMax)
				cancel()
				return
			}
			ratings[i] = rating
		}(i, sentence)
	}
	wg.Wait()

	if err := firstError(errs); err != nil {
		if a.logger != nil {
			a.logger.Error("sentence classification failed", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", entities.ErrClassifierUnavailable, err)
	}

	scored := make([]entities.ScoredSentence, len(sentences))
	for i, sentence := range sentences {
		scored[i] = entities.ScoredSentence{Text: sentence, Rating: ratings[i]}
	}

	analysis := &TextAnalysis{
		Scored:     scored,
		Score:      Aggregate(ratings),
		Highlights: RankHighlights(scored),
	}

	if a.logger != nil {
		a.logger.Debug("text analysis complete",
			zap.Int("sentences", len(sentences)),
			zap.Float64("positive", analysis.Score.Positive),
			zap.Float64("negative", analysis.Score.Negative),
			zap.Float64("neutral", analysis.Score.Neutral),
		)
	}

	return analysis, nil
}

// firstError returns the root-cause error from a batch: the first failure
// that is not just a cancellation echo, falling back to whatever is there.
func firstError(errs []error) error {
	var fallback error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if !stderrors.Is(err, context.Canceled) && !stderrors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if fallback == nil {
			fallback = err
		}
	}
	return fallback
}
