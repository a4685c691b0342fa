package painpoint

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Product is a named product whose mentions split pain points per product.
type Product struct {
	Name  string   `json:"name" yaml:"name"`
	Terms []string `json:"terms,omitempty" yaml:"terms"` // lower-case; defaults to the name
}

// MentionedIn reports whether any of the product's terms occurs in the
// normalized text.
func (p Product) MentionedIn(text string) bool {
	terms := p.Terms
	if len(terms) == 0 {
		terms = []string{p.Name}
	}
	for _, term := range terms {
		if term = strings.ToLower(strings.TrimSpace(term)); term != "" && strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// PainPointKey identifies one aggregated record.
type PainPointKey struct {
	Tier      Tier
	Indicator string
	Product   string // empty when product matching is off or nothing matched
}

// String returns the key in tier:indicator[:product] form.
func (k PainPointKey) String() string {
	if k.Product == "" {
		return string(k.Tier) + ":" + k.Indicator
	}
	return string(k.Tier) + ":" + k.Indicator + ":" + k.Product
}

// KeyResult is the outcome of parsing a stored key. When Skipped is set the
// key was malformed and Reason says why; Key is then zero.
type KeyResult struct {
	Key     PainPointKey
	Skipped bool
	Reason  string
}

// ParseKey splits a tier:indicator[:product] key. Malformed keys come back
// with Skipped set instead of an error so callers can choose to continue.
func ParseKey(s string) KeyResult {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 {
		return KeyResult{Skipped: true, Reason: fmt.Sprintf("key %q has no tier separator", s)}
	}
	tier := Tier(parts[0])
	if !tier.Valid() {
		return KeyResult{Skipped: true, Reason: fmt.Sprintf("key %q has unknown tier %q", s, parts[0])}
	}
	if strings.TrimSpace(parts[1]) == "" {
		return KeyResult{Skipped: true, Reason: fmt.Sprintf("key %q has an empty indicator", s)}
	}
	key := PainPointKey{Tier: tier, Indicator: parts[1]}
	if len(parts) == 3 {
		if strings.TrimSpace(parts[2]) == "" {
			return KeyResult{Skipped: true, Reason: fmt.Sprintf("key %q has an empty product", s)}
		}
		key.Product = parts[2]
	}
	return KeyResult{Key: key}
}

// PainPointRecord is the read view of an aggregated pain point, in the shape
// handed to the persistence layer.
type PainPointRecord struct {
	Key            string   `json:"key"`
	Category       Tier     `json:"category"`
	Indicator      string   `json:"indicator"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Frequency      int      `json:"frequency"`
	AvgSentiment   float64  `json:"avg_sentiment"`
	Severity       float64  `json:"severity"`
	RelatedPostIDs []string `json:"related_post_ids"`
	Product        *string  `json:"product"`
}

// accumulator keeps a running sum and count; the mean is derived on read.
type accumulator struct {
	key PainPointKey
	sum float64
	ids []string
}

func (a *accumulator) mean() float64 {
	if len(a.ids) == 0 {
		return 0
	}
	return a.sum / float64(len(a.ids))
}

func (a *accumulator) record() PainPointRecord {
	avg := a.mean()
	rec := PainPointRecord{
		Key:            a.key.String(),
		Category:       a.key.Tier,
		Indicator:      a.key.Indicator,
		Name:           titleCase(string(a.key.Tier)) + ": " + a.key.Indicator,
		Description:    fmt.Sprintf("Issues with %s described as '%s'", a.key.Tier, a.key.Indicator),
		Frequency:      len(a.ids),
		AvgSentiment:   avg,
		Severity:       a.key.Tier.Weight() * math.Abs(avg),
		RelatedPostIDs: append([]string(nil), a.ids...),
	}
	if a.key.Product != "" {
		product := a.key.Product
		rec.Product = &product
		rec.Name += " (" + product + ")"
	}
	return rec
}

// Aggregator folds indicator hits into one record per key. It is not safe
// for concurrent use; feed it from a single goroutine in document order.
type Aggregator struct {
	order   []string
	records map[string]*accumulator
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{records: make(map[string]*accumulator)}
}

// Add records one hit of key by document docID with the given sentiment.
func (ag *Aggregator) Add(key PainPointKey, docID string, sentiment float64) {
	k := key.String()
	acc, ok := ag.records[k]
	if !ok {
		acc = &accumulator{key: key}
		ag.records[k] = acc
		ag.order = append(ag.order, k)
	}
	acc.sum += sentiment
	acc.ids = append(acc.ids, docID)
}

// AddDocument records every indicator match of a scored document and returns
// the keys it touched. When products are given, a match is filed under each
// product mentioned in text, or under the bare key if none is.
func (ag *Aggregator) AddDocument(doc *Document, text string, matches []IndicatorMatch, products []Product) []string {
	var mentioned []string
	for _, p := range products {
		if p.MentionedIn(text) {
			mentioned = append(mentioned, p.Name)
		}
	}

	var keys []string
	for _, m := range matches {
		key := PainPointKey{Tier: m.Tier, Indicator: m.Indicator}
		if len(mentioned) == 0 {
			ag.Add(key, doc.ID, doc.SentimentScore())
			keys = append(keys, key.String())
			continue
		}
		for _, name := range mentioned {
			key.Product = name
			ag.Add(key, doc.ID, doc.SentimentScore())
			keys = append(keys, key.String())
		}
	}
	return keys
}

// Len returns the number of records.
func (ag *Aggregator) Len() int {
	return len(ag.order)
}

// Record returns the record stored under key.
func (ag *Aggregator) Record(key string) (PainPointRecord, bool) {
	acc, ok := ag.records[key]
	if !ok {
		return PainPointRecord{}, false
	}
	return acc.record(), true
}

// Records returns every record in creation order.
func (ag *Aggregator) Records() []PainPointRecord {
	out := make([]PainPointRecord, 0, len(ag.order))
	for _, k := range ag.order {
		out = append(out, ag.records[k].record())
	}
	return out
}

// Sorted returns the records by severity, highest first. Ties keep creation
// order. The aggregator itself is not reordered.
func (ag *Aggregator) Sorted() []PainPointRecord {
	out := ag.Records()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity > out[j].Severity
	})
	return out
}

// CountTier returns how many records belong to tier t.
func (ag *Aggregator) CountTier(t Tier) int {
	n := 0
	for _, k := range ag.order {
		if ag.records[k].key.Tier == t {
			n++
		}
	}
	return n
}

func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
