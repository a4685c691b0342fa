package painpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Lexicon manages the word lists behind the polarity scorer.
type Lexicon struct {
	words     map[string]LexiconEntry
	modifiers map[string]float64
	negations map[string]bool
	mutex     sync.RWMutex
}

// LexiconEntry represents a word's sentiment information
type LexiconEntry struct {
	Word       string
	Sentiment  float64 // -1 to 1
	Confidence float64 // 0 to 1
	Domain     string
}

// ExternalLexicon represents the JSON structure for external lexicon files.
// Only the "english" section is read.
type ExternalLexicon struct {
	Languages map[string]LanguageLexicon `json:"languages"`
}

// LanguageLexicon contains all word categories for a language
type LanguageLexicon struct {
	Words        []WordEntry     `json:"words,omitempty"`
	Modifiers    []ModifierEntry `json:"modifiers,omitempty"`
	Negations    []string        `json:"negations,omitempty"`
	Positive     []WordEntry     `json:"positive,omitempty"`
	Negative     []WordEntry     `json:"negative,omitempty"`
	Intensifiers []string        `json:"intensifiers,omitempty"`
	Diminishers  []string        `json:"diminishers,omitempty"`
}

// WordEntry represents a sentiment word in JSON format
type WordEntry struct {
	Word       string  `json:"word"`
	Sentiment  float64 `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	Domain     string  `json:"domain,omitempty"`
}

// ModifierEntry represents a modifier word in JSON format
type ModifierEntry struct {
	Word   string  `json:"word"`
	Factor float64 `json:"factor"`
}

const (
	defaultIntensifierStrength = 0.3
	defaultDiminisherStrength  = -0.3
)

// NewLexicon returns the built-in English lexicon.
func NewLexicon() *Lexicon {
	lexicon := &Lexicon{}
	lexicon.loadEnglishLexicon()
	lexicon.loadEnglishModifiers()
	lexicon.loadEnglishNegations()
	return lexicon
}

// LoadLexicon returns the built-in lexicon merged with the file at path. An
// empty path yields the built-in lexicon.
func LoadLexicon(path string) (*Lexicon, error) {
	lexicon := NewLexicon()
	if path == "" {
		return lexicon, nil
	}
	if err := lexicon.LoadExternal(path); err != nil {
		return nil, fmt.Errorf("failed to load external lexicon: %w", err)
	}
	return lexicon, nil
}

// LoadExternal reads a JSON lexicon file and merges its english section.
func (sl *Lexicon) LoadExternal(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading lexicon file: %w", err)
	}

	var external ExternalLexicon
	if err := json.Unmarshal(data, &external); err != nil {
		return fmt.Errorf("error parsing lexicon JSON: %w", err)
	}

	sl.mutex.Lock()
	defer sl.mutex.Unlock()
	if langData, ok := external.Languages["english"]; ok {
		sl.merge(langData)
	}
	return nil
}

func (sl *Lexicon) merge(data LanguageLexicon) {
	add := func(entries []WordEntry) {
		for _, entry := range entries {
			word := strings.ToLower(entry.Word)
			sl.words[word] = LexiconEntry{
				Word:       word,
				Sentiment:  clamp(entry.Sentiment, -1, 1),
				Confidence: entry.Confidence,
				Domain:     entry.Domain,
			}
		}
	}
	add(data.Words)
	add(data.Positive)
	add(data.Negative)

	for _, modifier := range data.Modifiers {
		sl.modifiers[strings.ToLower(modifier.Word)] = modifier.Factor
	}
	for _, intensifier := range data.Intensifiers {
		sl.modifiers[strings.ToLower(intensifier)] = defaultIntensifierStrength
	}
	for _, diminisher := range data.Diminishers {
		sl.modifiers[strings.ToLower(diminisher)] = defaultDiminisherStrength
	}
	for _, negation := range data.Negations {
		sl.negations[strings.ToLower(negation)] = true
	}
}

func (sl *Lexicon) loadEnglishLexicon() {
	sl.words = make(map[string]LexiconEntry, len(englishWords))
	for word, v := range englishWords {
		sl.words[word] = LexiconEntry{Word: word, Sentiment: v[0], Confidence: v[1]}
	}
}

func (sl *Lexicon) loadEnglishModifiers() {
	sl.modifiers = map[string]float64{
		// Intensifiers
		"very":         0.3,
		"extremely":    0.5,
		"absolutely":   0.5,
		"totally":      0.4,
		"really":       0.3,
		"so":           0.3,
		"too":          0.3,
		"quite":        0.2,
		"incredibly":   0.5,
		"remarkably":   0.4,
		"particularly": 0.3,
		"especially":   0.3,
		"super":        0.4,
		"utterly":      0.5,
		"completely":   0.4,
		"thoroughly":   0.4,
		"constantly":   0.3,
		"literally":    0.2,
		"seriously":    0.3,

		// Diminishers
		"slightly":   -0.3,
		"somewhat":   -0.3,
		"rather":     -0.2,
		"fairly":     -0.1,
		"marginally": -0.4,
		"barely":     -0.5,
		"hardly":     -0.5,
		"scarcely":   -0.5,
		"kinda":      -0.3,
		"sorta":      -0.3,
	}
}

func (sl *Lexicon) loadEnglishNegations() {
	sl.negations = map[string]bool{
		"not":      true,
		"no":       true,
		"never":    true,
		"neither":  true,
		"nor":      true,
		"cannot":   true,
		"cant":     true,
		"wont":     true,
		"dont":     true,
		"doesnt":   true,
		"didnt":    true,
		"isnt":     true,
		"arent":    true,
		"wasnt":    true,
		"werent":   true,
		"hasnt":    true,
		"havent":   true,
		"hadnt":    true,
		"wouldnt":  true,
		"shouldnt": true,
		"couldnt":  true,
		"aint":     true,
		"mustnt":   true,
		"without":  true,
		"nobody":   true,
		"nothing":  true,
		"nowhere":  true,
		"none":     true,
	}
}

// Valence returns the sentiment of word and whether the lexicon knows it.
// Simple inflections (crashes, crashed, crashing) fall back to their stem.
func (sl *Lexicon) Valence(word string) (float64, bool) {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	if entry, ok := sl.words[word]; ok {
		return entry.Sentiment, true
	}
	for _, stem := range inflectionStems(word) {
		if entry, ok := sl.words[stem]; ok {
			return entry.Sentiment, true
		}
	}
	return 0, false
}

// Confidence returns the confidence attached to a known word.
func (sl *Lexicon) Confidence(word string) float64 {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	return sl.words[word].Confidence
}

// IsNegation reports whether word negates the words that follow it.
func (sl *Lexicon) IsNegation(word string) bool {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	return sl.negations[word]
}

// ModifierStrength returns the booster (>0) or dampener (<0) strength of word.
func (sl *Lexicon) ModifierStrength(word string) float64 {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	return sl.modifiers[word]
}

// AddWord allows adding domain-specific words.
func (sl *Lexicon) AddWord(word string, sentiment, confidence float64) {
	sl.mutex.Lock()
	defer sl.mutex.Unlock()

	word = strings.ToLower(word)
	sl.words[word] = LexiconEntry{
		Word:       word,
		Sentiment:  clamp(sentiment, -1, 1),
		Confidence: confidence,
		Domain:     "custom",
	}
}

// AddModifier adds a custom modifier.
func (sl *Lexicon) AddModifier(word string, strength float64) {
	sl.mutex.Lock()
	defer sl.mutex.Unlock()

	sl.modifiers[strings.ToLower(word)] = strength
}

// AddNegation adds a custom negation word.
func (sl *Lexicon) AddNegation(word string) {
	sl.mutex.Lock()
	defer sl.mutex.Unlock()

	sl.negations[strings.ToLower(word)] = true
}

// Size returns the number of scored words.
func (sl *Lexicon) Size() int {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	return len(sl.words)
}

func inflectionStems(word string) []string {
	var stems []string
	for _, suf := range []string{"ing", "ed", "es", "s", "d"} {
		if len(word) > len(suf)+2 && strings.HasSuffix(word, suf) {
			stems = append(stems, strings.TrimSuffix(word, suf))
		}
	}
	return stems
}

// englishWords maps a word to {sentiment, confidence}.
var englishWords = map[string][2]float64{
	// Strong positive
	"excellent":   {0.9, 0.95},
	"amazing":     {0.85, 0.95},
	"wonderful":   {0.85, 0.95},
	"fantastic":   {0.85, 0.95},
	"outstanding": {0.9, 0.95},
	"perfect":     {0.95, 0.95},
	"brilliant":   {0.85, 0.95},
	"superb":      {0.85, 0.95},
	"incredible":  {0.8, 0.9},
	"flawless":    {0.9, 0.9},
	"best":        {0.85, 0.95},
	"love":        {0.8, 0.9},
	"loved":       {0.8, 0.9},
	"lovely":      {0.75, 0.9},
	"awesome":     {0.8, 0.9},

	// Moderate positive
	"good":        {0.6, 0.9},
	"great":       {0.75, 0.9},
	"nice":        {0.5, 0.85},
	"happy":       {0.7, 0.9},
	"enjoy":       {0.65, 0.9},
	"like":        {0.4, 0.7},
	"pleasant":    {0.6, 0.9},
	"positive":    {0.6, 0.9},
	"better":      {0.5, 0.85},
	"fun":         {0.65, 0.9},
	"helpful":     {0.6, 0.9},
	"useful":      {0.55, 0.9},
	"reliable":    {0.6, 0.9},
	"smooth":      {0.5, 0.8},
	"stable":      {0.4, 0.8},
	"impressive":  {0.7, 0.9},
	"recommend":   {0.6, 0.85},
	"thanks":      {0.4, 0.8},
	"thank":       {0.4, 0.8},
	"glad":        {0.6, 0.9},
	"excited":     {0.65, 0.9},
	"productive":  {0.55, 0.85},
	"powerful":    {0.5, 0.8},
	"intuitive":   {0.6, 0.85},
	"favorite":    {0.7, 0.9},
	"win":         {0.6, 0.85},
	"works":       {0.3, 0.6},
	"fixed":       {0.4, 0.7},
	"interesting": {0.5, 0.85},

	// Mild positive
	"okay":   {0.2, 0.7},
	"ok":     {0.2, 0.7},
	"fine":   {0.3, 0.75},
	"decent": {0.4, 0.8},
	"fast":   {0.3, 0.6},
	"easy":   {0.3, 0.6},
	"clean":  {0.3, 0.6},

	// Strong negative
	"terrible":   {-0.9, 0.95},
	"awful":      {-0.85, 0.95},
	"horrible":   {-0.85, 0.95},
	"disgusting": {-0.9, 0.95},
	"dreadful":   {-0.85, 0.95},
	"atrocious":  {-0.9, 0.95},
	"abysmal":    {-0.95, 0.95},
	"worst":      {-0.85, 0.95},
	"hate":       {-0.8, 0.9},
	"useless":    {-0.8, 0.9},
	"unusable":   {-0.85, 0.9},
	"garbage":    {-0.8, 0.9},
	"broken":     {-0.7, 0.9},
	"crash":      {-0.65, 0.9},
	"corrupted":  {-0.75, 0.9},
	"nightmare":  {-0.8, 0.9},

	// Moderate negative
	"bad":           {-0.6, 0.9},
	"sad":           {-0.7, 0.9},
	"disappointing": {-0.7, 0.9},
	"disappointed":  {-0.7, 0.9},
	"poor":          {-0.65, 0.9},
	"wrong":         {-0.6, 0.85},
	"worse":         {-0.5, 0.85},
	"dislike":       {-0.5, 0.85},
	"negative":      {-0.6, 0.9},
	"annoying":      {-0.65, 0.9},
	"frustrating":   {-0.7, 0.9},
	"frustrated":    {-0.7, 0.9},
	"boring":        {-0.6, 0.85},
	"fail":          {-0.7, 0.9},
	"failure":       {-0.75, 0.9},
	"bug":           {-0.5, 0.85},
	"buggy":         {-0.65, 0.9},
	"error":         {-0.5, 0.85},
	"glitch":        {-0.5, 0.85},
	"freeze":        {-0.55, 0.85},
	"frozen":        {-0.55, 0.85},
	"stuck":         {-0.5, 0.85},
	"lag":           {-0.45, 0.85},
	"laggy":         {-0.5, 0.85},
	"problem":       {-0.45, 0.8},
	"issue":         {-0.35, 0.8},
	"confusing":     {-0.5, 0.85},
	"difficult":     {-0.4, 0.8},
	"complicated":   {-0.35, 0.8},
	"expensive":     {-0.35, 0.7},
	"lost":          {-0.5, 0.8},
	"waste":         {-0.6, 0.85},
	"angry":         {-0.7, 0.9},
	"ugly":          {-0.75, 0.9},

	// Mild negative
	"slow":    {-0.3, 0.6},
	"hard":    {-0.2, 0.5},
	"cheap":   {-0.3, 0.6},
	"old":     {-0.2, 0.5},
	"meh":     {-0.2, 0.6},
	"unclear": {-0.25, 0.6},
}
