package painpoint

import (
	"sync"
	"time"
)

// Label is the polarity class attached to a scored document.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// classOrder is the fixed column order of every probability triple and
// confusion matrix produced by the classifier.
var classOrder = [numClasses]Label{Negative, Neutral, Positive}

const numClasses = 3

// classIndex returns the position of l in classOrder, or -1.
func classIndex(l Label) int {
	for i, c := range classOrder {
		if c == l {
			return i
		}
	}
	return -1
}

// Valid reports whether l is one of the three known labels.
func (l Label) Valid() bool {
	return classIndex(l) >= 0
}

// Tier is a pain severity tier.
type Tier string

const (
	Critical Tier = "critical"
	High     Tier = "high"
	Medium   Tier = "medium"
	Low      Tier = "low"
)

// Tiers lists the severity tiers from most to least severe.
var Tiers = []Tier{Critical, High, Medium, Low}

// Weight returns the multiplier used when computing pain-point severity.
func (t Tier) Weight() float64 {
	switch t {
	case Critical:
		return 1.0
	case High:
		return 0.7
	case Medium:
		return 0.4
	case Low:
		return 0.2
	}
	return 0
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	return t.Weight() > 0
}

// PolarityScores is the output of the lexicon scorer.
type PolarityScores struct {
	Compound float64 `json:"compound"` // -1.0 (negative) to 1.0 (positive)
	Positive float64 `json:"pos"`
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neu"`
}

// FeatureVector holds the per-document features used by the scorers. It is
// cheap to recompute and never persisted.
type FeatureVector struct {
	WordCount        int     `json:"word_count"`
	SentenceCount    int     `json:"sentence_count"`
	ExclamationCount int     `json:"exclamation_count"`
	QuestionCount    int     `json:"question_count"`
	UppercaseRatio   float64 `json:"uppercase_ratio"`
	NegationCount    int     `json:"negation_count"`
	IntensifierCount int     `json:"intensifier_count"`

	Lexicon PolarityScores `json:"lexicon"`

	// Indicator presence counts per tier.
	CriticalHits int `json:"critical_hits"`
	HighHits     int `json:"high_hits"`
	MediumHits   int `json:"medium_hits"`
	LowHits      int `json:"low_hits"`
}

// TierHits returns the indicator presence count for tier t.
func (fv FeatureVector) TierHits(t Tier) int {
	switch t {
	case Critical:
		return fv.CriticalHits
	case High:
		return fv.HighHits
	case Medium:
		return fv.MediumHits
	case Low:
		return fv.LowHits
	}
	return 0
}

// IndicatorMatch is a single (tier, indicator) hit inside a text.
type IndicatorMatch struct {
	Tier      Tier
	Indicator string
}

// TopicEntry is one row of the batch topic summary.
type TopicEntry struct {
	Term      string  `json:"term"`
	Frequency int     `json:"frequency"`
	Relevance float64 `json:"relevance"`
}

// SentimentDistribution counts documents per label.
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

func (d *SentimentDistribution) add(l Label) {
	switch l {
	case Positive:
		d.Positive++
	case Negative:
		d.Negative++
	default:
		d.Neutral++
	}
}

// Total returns the number of documents counted.
func (d SentimentDistribution) Total() int {
	return d.Positive + d.Negative + d.Neutral
}

// BatchResult is the bundle returned by Analyzer.AnalyzeBatch.
type BatchResult struct {
	RunID                 string                `json:"run_id"`
	AnalyzedAt            time.Time             `json:"analyzed_at"`
	PostsAnalyzed         int                   `json:"posts_analyzed"`
	TotalWords            int                   `json:"total_words"`
	SentimentDistribution SentimentDistribution `json:"sentiment_distribution"`
	AvgSentiment          float64               `json:"avg_sentiment"`
	StdSentiment          float64               `json:"std_sentiment"`
	Topics                []TopicEntry          `json:"topics"`
	PainPoints            []PainPointRecord     `json:"pain_points"`
	Insights              []string              `json:"insights"`
}

// Statistics are cumulative counters kept by an Analyzer across batches.
type Statistics struct {
	TotalPostsProcessed   int                   `json:"total_posts_processed"`
	TotalWordsProcessed   int                   `json:"total_words_processed"`
	SentimentDistribution SentimentDistribution `json:"sentiment_distribution"`
	ModelTrained          bool                  `json:"model_trained"`
	AccuracyMetrics       *TrainingMetrics      `json:"accuracy_metrics,omitempty"`
	Timestamp             time.Time             `json:"timestamp"`
}

// stringSet is a read-mostly set of words shared by the extractors.
type stringSet map[string]struct{}

func newStringSet(words ...string) stringSet {
	s := make(stringSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s stringSet) has(w string) bool {
	_, ok := s[w]
	return ok
}

// memo caches the answer of a pure string predicate. The cache holds at most
// limit entries; it is emptied when it fills up.
type memo struct {
	mu    sync.RWMutex
	cache map[string]bool
	limit int
	fn    func(string) bool
}

func newMemo(limit int, fn func(string) bool) *memo {
	return &memo{cache: make(map[string]bool), limit: limit, fn: fn}
}

func (m *memo) get(s string) bool {
	m.mu.RLock()
	v, ok := m.cache[s]
	m.mu.RUnlock()
	if ok {
		return v
	}
	v = m.fn(s)
	m.mu.Lock()
	if len(m.cache) >= m.limit {
		clear(m.cache)
	}
	m.cache[s] = v
	m.mu.Unlock()
	return v
}
