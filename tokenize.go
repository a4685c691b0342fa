package painpoint

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenizer splits normalized text into word and punctuation tokens.
type Tokenizer interface {
	Tokenize(string) []string
}

// iterTokenizer walks whitespace-separated spans and peels punctuation off
// both ends of each span.
type iterTokenizer struct {
	suffixes []string
	prefixes []string
	// stems are contraction heads that lose their apostrophe during
	// normalization ("don't" becomes "don t"). A following "t" is glued back
	// so negations survive as a single token ("dont").
	stems map[string]bool
}

type TokenizerOptFunc func(*iterTokenizer)

// UsingSuffixes replaces the characters split off the end of a span.
func UsingSuffixes(x []string) TokenizerOptFunc {
	return func(tokenizer *iterTokenizer) {
		tokenizer.suffixes = x
	}
}

// UsingPrefixes replaces the characters split off the start of a span.
func UsingPrefixes(x []string) TokenizerOptFunc {
	return func(tokenizer *iterTokenizer) {
		tokenizer.prefixes = x
	}
}

// UsingContractionStems replaces the set of contraction heads.
func UsingContractionStems(x []string) TokenizerOptFunc {
	return func(tokenizer *iterTokenizer) {
		tokenizer.stems = make(map[string]bool, len(x))
		for _, s := range x {
			tokenizer.stems[s] = true
		}
	}
}

// NewIterTokenizer returns the default tokenizer.
func NewIterTokenizer(opts ...TokenizerOptFunc) *iterTokenizer {
	tok := new(iterTokenizer)

	tok.suffixes = suffixes
	tok.prefixes = prefixes
	UsingContractionStems(contractionStems)(tok)

	for _, applyOpt := range opts {
		applyOpt(tok)
	}
	return tok
}

func (t *iterTokenizer) doSplit(span string) []string {
	var toks, suffs []string

	last := 0
	for span != "" && utf8.RuneCountInString(span) != last {
		last = utf8.RuneCountInString(span)
		if hasAnyPrefix(span, t.prefixes) {
			toks = append(toks, span[:1])
			span = span[1:]
		} else if hasAnySuffix(span, t.suffixes) {
			// Well! -> [well, !]
			suffs = append([]string{span[len(span)-1:]}, suffs...)
			span = span[:len(span)-1]
		} else {
			toks = append(toks, span)
			break
		}
	}
	return append(toks, suffs...)
}

// Tokenize splits text into tokens. Text is expected to be normalized.
func (t *iterTokenizer) Tokenize(text string) []string {
	var tokens []string
	for _, span := range strings.FieldsFunc(text, unicode.IsSpace) {
		for _, tok := range t.doSplit(span) {
			if tok == "t" && len(tokens) > 0 && t.stems[tokens[len(tokens)-1]] {
				tokens[len(tokens)-1] += "t"
				continue
			}
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func hasAnyPrefix(s string, prefixes []string) bool {
	n := len(s)
	for _, prefix := range prefixes {
		if n > len(prefix) && strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	n := len(s)
	for _, suffix := range suffixes {
		if n > len(suffix) && strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

// isWordToken reports whether tok contains at least one letter or digit.
func isWordToken(tok string) bool {
	for _, r := range tok {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

var suffixes = []string{".", "!", "?"}
var prefixes = []string{".", "!", "?"}
var contractionStems = []string{
	"don", "doesn", "didn", "isn", "aren", "wasn", "weren", "hasn", "haven",
	"hadn", "won", "wouldn", "shouldn", "couldn", "can", "ain", "mustn",
}
