package painpoint

import (
	"math"
	"regexp"
	"sort"
)

// termRE matches word tokens of two or more characters.
var termRE = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// sparseVector is a row of the document-term matrix. idx is ascending.
type sparseVector struct {
	idx []int
	val []float64
}

// VectorizerConfig bounds the vocabulary of the term-weighting vectorizer.
type VectorizerConfig struct {
	MaxFeatures int     // Keep at most this many terms, by corpus frequency
	MinDF       int     // A term must appear in at least this many documents
	MaxDF       float64 // and in at most this share of documents
	MaxNGram    int     // 1 for unigrams, 2 for unigrams and bigrams
}

// DefaultVectorizerConfig returns standard configuration
func DefaultVectorizerConfig() VectorizerConfig {
	return VectorizerConfig{
		MaxFeatures: 5000,
		MinDF:       2,
		MaxDF:       0.95,
		MaxNGram:    2,
	}
}

// tfidfVectorizer maps text to L2-normalized tf-idf rows.
type tfidfVectorizer struct {
	vocabulary map[string]int
	idf        []float64
	maxNGram   int
}

// analyzeTerms normalizes text and returns its unigrams and, when maxNGram is
// 2, its bigrams. Stop words are removed before bigrams are formed.
func analyzeTerms(text string, maxNGram int) []string {
	words := termRE.FindAllString(Normalize(text), -1)
	kept := words[:0]
	for _, w := range words {
		if !IsStopWord(w) {
			kept = append(kept, w)
		}
	}

	terms := make([]string, 0, 2*len(kept))
	terms = append(terms, kept...)
	if maxNGram >= 2 {
		for i := 0; i+1 < len(kept); i++ {
			terms = append(terms, kept[i]+" "+kept[i+1])
		}
	}
	return terms
}

// fitVectorizer learns the vocabulary and idf weights from texts.
func fitVectorizer(texts []string, config VectorizerConfig) *tfidfVectorizer {
	n := len(texts)
	df := make(map[string]int)
	tf := make(map[string]int)
	for _, text := range texts {
		seen := make(map[string]bool)
		for _, term := range analyzeTerms(text, config.MaxNGram) {
			tf[term]++
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}

	maxDocs := config.MaxDF * float64(n)
	candidates := make([]string, 0, len(df))
	for term, d := range df {
		if d >= config.MinDF && float64(d) <= maxDocs {
			candidates = append(candidates, term)
		}
	}

	// Highest corpus frequency first, ties in lexical order.
	sort.Slice(candidates, func(i, j int) bool {
		if tf[candidates[i]] != tf[candidates[j]] {
			return tf[candidates[i]] > tf[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	if config.MaxFeatures > 0 && len(candidates) > config.MaxFeatures {
		candidates = candidates[:config.MaxFeatures]
	}
	sort.Strings(candidates)

	v := &tfidfVectorizer{
		vocabulary: make(map[string]int, len(candidates)),
		idf:        make([]float64, len(candidates)),
		maxNGram:   config.MaxNGram,
	}
	for i, term := range candidates {
		v.vocabulary[term] = i
		v.idf[i] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}
	return v
}

// size returns the number of terms in the vocabulary.
func (v *tfidfVectorizer) size() int {
	return len(v.idf)
}

// transform returns the tf-idf row of text. Out-of-vocabulary terms are
// ignored; a text with no known terms yields an empty row.
func (v *tfidfVectorizer) transform(text string) sparseVector {
	counts := make(map[int]float64)
	for _, term := range analyzeTerms(text, v.maxNGram) {
		if i, ok := v.vocabulary[term]; ok {
			counts[i]++
		}
	}

	row := sparseVector{idx: make([]int, 0, len(counts))}
	for i := range counts {
		row.idx = append(row.idx, i)
	}
	sort.Ints(row.idx)

	row.val = make([]float64, len(row.idx))
	var norm float64
	for k, i := range row.idx {
		w := counts[i] * v.idf[i]
		row.val[k] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for k := range row.val {
			row.val[k] /= norm
		}
	}
	return row
}
