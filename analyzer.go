package painpoint

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

const (
	highNegativeShare     = 50.0
	moderateNegativeShare = 30.0
	largeCorpusWords      = 1_000_000
	defaultKeywordLimit   = 10
)

// An AnalyzerOpt represents a setting that changes how an Analyzer is built.
//
// For example, it might attach a trained classifier:
//
//	a := painpoint.NewAnalyzer(painpoint.WithClassifier(clf))
type AnalyzerOpt func(opts *AnalyzerOpts)

// AnalyzerOpts controls Analyzer construction.
type AnalyzerOpts struct {
	Lexicon      *Lexicon     // Lexicon of the polarity scorer
	Classifier   *Classifier  // Optional trained classifier
	Logger       *slog.Logger // Destination of per-batch and per-failure logs
	Workers      int          // Documents scored in parallel
	TopTopics    int          // Topics kept per batch
	KeywordLimit int          // Keywords attached to each document
	Products     []Product    // Products used to split pain points
	Polarity     PolarityConfig
}

// WithLexicon sets the lexicon used by the polarity scorer.
func WithLexicon(lexicon *Lexicon) AnalyzerOpt {
	return func(opts *AnalyzerOpts) {
		opts.Lexicon = lexicon
	}
}

// WithClassifier attaches a classifier. It is consulted only while trained.
func WithClassifier(c *Classifier) AnalyzerOpt {
	return func(opts *AnalyzerOpts) {
		opts.Classifier = c
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) AnalyzerOpt {
	return func(opts *AnalyzerOpts) {
		opts.Logger = logger
	}
}

// WithWorkers sets how many documents are scored concurrently.
func WithWorkers(n int) AnalyzerOpt {
	return func(opts *AnalyzerOpts) {
		opts.Workers = n
	}
}

// WithTopTopics sets the number of topics returned per batch.
func WithTopTopics(n int) AnalyzerOpt {
	return func(opts *AnalyzerOpts) {
		opts.TopTopics = n
	}
}

// WithKeywordLimit sets the number of keywords attached to each document.
func WithKeywordLimit(n int) AnalyzerOpt {
	return func(opts *AnalyzerOpts) {
		opts.KeywordLimit = n
	}
}

// WithProducts enables per-product pain points.
func WithProducts(products ...Product) AnalyzerOpt {
	return func(opts *AnalyzerOpts) {
		opts.Products = append(opts.Products, products...)
	}
}

// Analyzer runs the full pipeline over batches of documents.
type Analyzer struct {
	scorer       *EnsembleScorer
	topics       *TopicExtractor
	classifier   *Classifier
	products     []Product
	workers      int
	keywordLimit int
	logger       *slog.Logger

	mu    sync.Mutex
	stats Statistics
}

// NewAnalyzer creates an Analyzer according to the user-specified options.
func NewAnalyzer(opts ...AnalyzerOpt) *Analyzer {
	base := AnalyzerOpts{
		Workers:      1,
		TopTopics:    DefaultTopTopics,
		KeywordLimit: defaultKeywordLimit,
		Polarity:     DefaultPolarityConfig(),
	}
	for _, applyOpt := range opts {
		applyOpt(&base)
	}
	if base.Logger == nil {
		base.Logger = discardLogger()
	}
	if base.Workers < 1 {
		base.Workers = 1
	}

	features := NewFeatureExtractor(NewPolarityScorer(base.Lexicon, base.Polarity))
	return &Analyzer{
		scorer:       NewEnsembleScorer(features, base.Classifier, base.Logger),
		topics:       NewTopicExtractor(base.TopTopics),
		classifier:   base.Classifier,
		products:     base.Products,
		workers:      base.Workers,
		keywordLimit: base.KeywordLimit,
		logger:       base.Logger,
	}
}

// Scorer returns the ensemble scorer used for each document.
func (a *Analyzer) Scorer() *EnsembleScorer {
	return a.scorer
}

// docScore is the per-document output of the parallel phase.
type docScore struct {
	text       string
	normalized string
	words      int
	sentiment  Sentiment
	matches    []IndicatorMatch
	keywords   []string
}

// AnalyzeBatch scores every document, attaches the result to it, and returns
// the batch summary. Documents are scored concurrently but aggregated in
// input order, so results do not depend on the worker count. A document that
// fails to score is logged and gets a neutral sentiment. Nil documents are
// ignored. The only error is ctx's.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, docs []*Document) (*BatchResult, error) {
	start := time.Now()
	live := make([]*Document, 0, len(docs))
	for _, doc := range docs {
		if doc != nil {
			live = append(live, doc)
		}
	}
	a.logger.Info("starting batch analysis", "posts", len(live), "workers", a.workers)

	scores := make([]docScore, len(live))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, doc := range live {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scores[i] = a.scoreDocument(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analyze batch: %w", err)
	}

	result := &BatchResult{
		RunID:         uuid.NewString(),
		AnalyzedAt:    time.Now().UTC(),
		PostsAnalyzed: len(live),
		Topics:        []TopicEntry{},
		PainPoints:    []PainPointRecord{},
		Insights:      []string{},
	}

	agg := NewAggregator()
	values := make([]float64, 0, len(live))
	texts := make([]string, 0, len(live))
	for i, doc := range live {
		s := scores[i]
		sentiment := s.sentiment
		doc.Sentiment = &sentiment
		doc.Topics = s.keywords
		doc.PainPoints = agg.AddDocument(doc, s.normalized, s.matches, a.products)

		result.TotalWords += s.words
		result.SentimentDistribution.add(sentiment.Label)
		values = append(values, sentiment.Score)
		texts = append(texts, s.text)
	}

	if len(values) > 0 {
		result.AvgSentiment, result.StdSentiment = stat.PopMeanStdDev(values, nil)
	}
	result.Topics = a.topics.Extract(texts)
	result.PainPoints = agg.Sorted()
	result.Insights = buildInsights(result.SentimentDistribution, agg.CountTier(Critical), result.TotalWords)

	a.recordStats(result)
	a.logger.Info("batch analysis complete",
		"posts", result.PostsAnalyzed,
		"words", result.TotalWords,
		"positive", result.SentimentDistribution.Positive,
		"negative", result.SentimentDistribution.Negative,
		"neutral", result.SentimentDistribution.Neutral,
		"pain_points", len(result.PainPoints),
		"duration", time.Since(start))
	return result, nil
}

// scoreDocument runs the per-document steps. A panic anywhere in them leaves
// the document neutral with no matches.
func (a *Analyzer) scoreDocument(doc *Document) (s docScore) {
	s.text = doc.Text()
	s.words = len(strings.Fields(s.text))
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("document scoring failed, using neutral default", "id", doc.ID, "panic", r)
			s = docScore{text: s.text, words: s.words, sentiment: Sentiment{Label: Neutral}}
		}
	}()

	score, fv := a.scorer.score(s.text)
	s.sentiment = Sentiment{Score: score, Label: LabelFor(score)}
	s.normalized = Normalize(s.text)
	if fv.CriticalHits+fv.HighHits+fv.MediumHits+fv.LowHits > 0 {
		s.matches = MatchIndicators(s.normalized)
	}
	if a.keywordLimit > 0 {
		s.keywords = a.topics.Keywords(s.text, a.keywordLimit)
	}
	return s
}

func buildInsights(dist SentimentDistribution, critical, totalWords int) []string {
	insights := []string{}
	if total := dist.Total(); total > 0 {
		negativePct := float64(dist.Negative) / float64(total) * 100
		switch {
		case negativePct > highNegativeShare:
			insights = append(insights, fmt.Sprintf("High negative sentiment detected (%.1f%% negative posts)", negativePct))
		case negativePct > moderateNegativeShare:
			insights = append(insights, fmt.Sprintf("Moderate negative sentiment (%.1f%% negative posts)", negativePct))
		}
	}
	if critical > 0 {
		insights = append(insights, fmt.Sprintf("%d critical pain points identified requiring immediate attention", critical))
	}
	if totalWords > largeCorpusWords {
		insights = append(insights, fmt.Sprintf("Large dataset analyzed: %s words processed", humanize.Comma(int64(totalWords))))
	}
	return insights
}

func (a *Analyzer) recordStats(result *BatchResult) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stats.TotalPostsProcessed += result.PostsAnalyzed
	a.stats.TotalWordsProcessed += result.TotalWords
	a.stats.SentimentDistribution = result.SentimentDistribution
}

// Stats returns the counters accumulated over every batch so far.
func (a *Analyzer) Stats() Statistics {
	a.mu.Lock()
	stats := a.stats
	a.mu.Unlock()

	stats.Timestamp = time.Now().UTC()
	if a.classifier != nil {
		if m, err := a.classifier.Metrics(); err == nil {
			stats.ModelTrained = true
			stats.AccuracyMetrics = &m
		}
	}
	return stats
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
