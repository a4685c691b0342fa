package painpoint

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// DefaultTopTopics is the number of topics returned when none is configured.
const DefaultTopTopics = 20

// TopicExtractor summarizes the most frequent content terms of a batch.
type TopicExtractor struct {
	topN      int
	minLength int // terms must be longer than this many runes
}

// NewTopicExtractor returns an extractor that keeps topN terms. A topN of 0
// or less selects DefaultTopTopics.
func NewTopicExtractor(topN int) *TopicExtractor {
	if topN <= 0 {
		topN = DefaultTopTopics
	}
	return &TopicExtractor{topN: topN, minLength: 2}
}

// Extract counts the filtered terms of texts and returns the topN most
// frequent. Ties keep the order in which terms were first seen, and
// relevance is the term's share of all filtered tokens.
func (te *TopicExtractor) Extract(texts []string) []TopicEntry {
	terms, total := te.count(texts)
	if total == 0 {
		return []TopicEntry{}
	}
	if len(terms) > te.topN {
		terms = terms[:te.topN]
	}
	out := make([]TopicEntry, len(terms))
	for i, t := range terms {
		out[i] = TopicEntry{
			Term:      t.term,
			Frequency: t.freq,
			Relevance: float64(t.freq) / float64(total),
		}
	}
	return out
}

// Keywords returns up to n of the most frequent filtered terms of one text.
func (te *TopicExtractor) Keywords(text string, n int) []string {
	if n <= 0 {
		return nil
	}
	terms, _ := te.count([]string{text})
	if len(terms) > n {
		terms = terms[:n]
	}
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.term
	}
	return out
}

type termCount struct {
	term string
	freq int
}

// count returns the filtered terms sorted by descending frequency, stable on
// first appearance, and the number of filtered tokens.
func (te *TopicExtractor) count(texts []string) ([]termCount, int) {
	index := make(map[string]int)
	var terms []termCount
	total := 0
	for _, text := range texts {
		for _, tok := range strings.Fields(Normalize(text)) {
			tok = strings.Trim(tok, ".!?")
			if !te.keep(tok) {
				continue
			}
			total++
			if i, ok := index[tok]; ok {
				terms[i].freq++
				continue
			}
			index[tok] = len(terms)
			terms = append(terms, termCount{term: tok, freq: 1})
		}
	}
	sort.SliceStable(terms, func(i, j int) bool {
		return terms[i].freq > terms[j].freq
	})
	return terms, total
}

func (te *TopicExtractor) keep(tok string) bool {
	return utf8.RuneCountInString(tok) > te.minLength &&
		isAlphanumeric(tok) &&
		!isTopicNoise(tok)
}
