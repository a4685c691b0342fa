package painpoint

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

// painIndicators lists the indicator phrases of each tier in match order.
var painIndicators = map[Tier][]string{
	Critical: {"crash", "broken", "unusable", "frozen", "corrupted", "lost data", "delete"},
	High:     {"slow", "lag", "bug", "error", "glitch", "freeze", "hang", "stuck"},
	Medium:   {"frustrating", "annoying", "difficult", "confusing", "complicated"},
	Low:      {"wish", "should", "could", "better", "improve", "feature"},
}

// Indicators returns the indicator phrases of tier t.
func Indicators(t Tier) []string {
	return append([]string(nil), painIndicators[t]...)
}

var (
	negationWords    = newStringSet("not", "no", "never", "nothing", "nobody", "nowhere")
	intensifierWords = newStringSet("very", "extremely", "really", "so", "too", "quite")
)

var (
	segmenterOnce sync.Once
	segmenter     *sentences.DefaultSentenceTokenizer
)

// sentenceSegmenter returns the shared English punkt tokenizer, or nil if its
// training data could not be loaded.
func sentenceSegmenter() *sentences.DefaultSentenceTokenizer {
	segmenterOnce.Do(func() {
		tok, err := english.NewSentenceTokenizer(nil)
		if err == nil {
			segmenter = tok
		}
	})
	return segmenter
}

// FeatureExtractor derives a FeatureVector from a document's text.
type FeatureExtractor struct {
	scorer    *PolarityScorer
	tokenizer Tokenizer
}

// NewFeatureExtractor creates an extractor that takes its lexicon sub-scores
// from scorer. A nil scorer uses the default polarity scorer.
func NewFeatureExtractor(scorer *PolarityScorer) *FeatureExtractor {
	if scorer == nil {
		scorer = NewPolarityScorer(nil, DefaultPolarityConfig())
	}
	return &FeatureExtractor{
		scorer:    scorer,
		tokenizer: NewIterTokenizer(),
	}
}

// Extract computes the feature vector of raw, the text before normalization.
// The uppercase ratio is measured on raw; every other feature on the
// normalized form.
func (fe *FeatureExtractor) Extract(raw string) FeatureVector {
	text := Normalize(raw)
	tokens := fe.tokenizer.Tokenize(text)

	fv := FeatureVector{
		WordCount:      len(strings.Fields(text)),
		SentenceCount:  countSentences(text),
		UppercaseRatio: uppercaseRatio(raw),
		Lexicon:        fe.scorer.ScoreTokens(tokens),
	}

	for _, tok := range tokens {
		switch {
		case tok == "!":
			fv.ExclamationCount++
		case tok == "?":
			fv.QuestionCount++
		case negationWords.has(tok):
			fv.NegationCount++
		case intensifierWords.has(tok):
			fv.IntensifierCount++
		}
	}

	for _, m := range MatchIndicators(text) {
		switch m.Tier {
		case Critical:
			fv.CriticalHits++
		case High:
			fv.HighHits++
		case Medium:
			fv.MediumHits++
		case Low:
			fv.LowHits++
		}
	}
	return fv
}

// MatchIndicators returns each indicator phrase present in text, at most once
// per phrase, ordered from the critical tier down and by lexicon order inside
// a tier. text should already be normalized.
func MatchIndicators(text string) []IndicatorMatch {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	var matches []IndicatorMatch
	for _, tier := range Tiers {
		for _, indicator := range painIndicators[tier] {
			if strings.Contains(lower, indicator) {
				matches = append(matches, IndicatorMatch{Tier: tier, Indicator: indicator})
			}
		}
	}
	return matches
}

func countSentences(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	seg := sentenceSegmenter()
	if seg == nil {
		return countTerminators(text)
	}
	n := 0
	for _, s := range seg.Tokenize(text) {
		if strings.TrimSpace(s.Text) != "" {
			n++
		}
	}
	return n
}

// countTerminators is the fallback sentence counter: runs of . ! ? end a
// sentence, and trailing text without a terminator counts as one more.
func countTerminators(text string) int {
	n, open := 0, false
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if open {
				n++
			}
			open = false
		} else if !unicode.IsSpace(r) {
			open = true
		}
	}
	if open {
		n++
	}
	return n
}

func uppercaseRatio(raw string) float64 {
	n := utf8.RuneCountInString(raw)
	if n == 0 {
		return 0
	}
	upper := 0
	for _, r := range raw {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return float64(upper) / float64(n)
}
