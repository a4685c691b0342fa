package painpoint

import "math"

// PolarityScorer is a dictionary and rule based scorer. It needs no training
// and holds no per-call state, so the same text always gets the same scores.
type PolarityScorer struct {
	lexicon   *Lexicon
	tokenizer Tokenizer
	config    PolarityConfig
}

// PolarityConfig configures the rule scorer.
type PolarityConfig struct {
	NegationWindow int     // Tokens to look back for a negation
	NegationScalar float64 // Multiplier applied to a negated word
	ValenceScale   float64 // Lexicon sentiment is scaled by this before summing
	Alpha          float64 // Normalization constant of the compound score
}

// DefaultPolarityConfig returns standard configuration
func DefaultPolarityConfig() PolarityConfig {
	return PolarityConfig{
		NegationWindow: 3,
		NegationScalar: -0.74,
		ValenceScale:   4,
		Alpha:          15,
	}
}

const (
	exclamationBoost = 0.292
	maxExclamations  = 4
	questionBoost    = 0.18
	maxQuestions     = 3
	butBefore        = 0.5
	butAfter         = 1.5
)

// boosterDecay damps a modifier by its distance from the scored word.
var boosterDecay = [...]float64{1.0, 0.95, 0.9}

// NewPolarityScorer creates a scorer over lexicon. A nil lexicon selects the
// built-in English lexicon.
func NewPolarityScorer(lexicon *Lexicon, config PolarityConfig) *PolarityScorer {
	if lexicon == nil {
		lexicon = NewLexicon()
	}
	return &PolarityScorer{
		lexicon:   lexicon,
		tokenizer: NewIterTokenizer(),
		config:    config,
	}
}

// Lexicon returns the lexicon the scorer reads from.
func (ps *PolarityScorer) Lexicon() *Lexicon {
	return ps.lexicon
}

// Score normalizes text and scores it.
func (ps *PolarityScorer) Score(text string) PolarityScores {
	return ps.ScoreTokens(ps.tokenizer.Tokenize(Normalize(text)))
}

// ScoreTokens scores already tokenized, normalized text.
func (ps *PolarityScorer) ScoreTokens(tokens []string) PolarityScores {
	// Step 1: per-word valence with modifiers and negation applied
	valences := make([]float64, 0, len(tokens))
	butAt := -1
	for i, tok := range tokens {
		if !isWordToken(tok) {
			continue
		}
		if tok == "but" && butAt < 0 {
			butAt = len(valences)
		}
		valences = append(valences, ps.wordValence(tokens, i))
	}
	if len(valences) == 0 {
		return PolarityScores{Neutral: 1}
	}

	// Step 2: contrast around the first "but"
	if butAt >= 0 {
		for i := range valences {
			switch {
			case i < butAt:
				valences[i] *= butBefore
			case i > butAt:
				valences[i] *= butAfter
			}
		}
	}

	// Step 3: sum and punctuation emphasis
	var sum float64
	for _, v := range valences {
		sum += v
	}
	emphasis := punctuationEmphasis(tokens)
	if sum > 0 {
		sum += emphasis
	} else if sum < 0 {
		sum -= emphasis
	}

	scores := PolarityScores{Compound: ps.normalizeScore(sum)}
	scores.Positive, scores.Negative, scores.Neutral = siftMass(valences, emphasis)
	return scores
}

// wordValence returns the scaled valence of tokens[i], or 0 for words the
// lexicon does not score.
func (ps *PolarityScorer) wordValence(tokens []string, i int) float64 {
	tok := tokens[i]
	if ps.lexicon.ModifierStrength(tok) != 0 || ps.lexicon.IsNegation(tok) {
		return 0
	}
	base, ok := ps.lexicon.Valence(tok)
	if !ok || base == 0 {
		return 0
	}

	valence := base * ps.config.ValenceScale
	valence = ps.applyModifiers(valence, tokens, i)
	if ps.checkNegation(tokens, i) {
		valence *= ps.config.NegationScalar
	}
	return valence
}

// applyModifiers pushes valence away from (boosters) or towards (dampeners)
// zero for each modifier among the three preceding tokens.
func (ps *PolarityScorer) applyModifiers(valence float64, tokens []string, position int) float64 {
	sign := 1.0
	if valence < 0 {
		sign = -1
	}
	for d := 1; d <= len(boosterDecay) && position-d >= 0; d++ {
		prev := tokens[position-d]
		if isClauseBoundary(prev) {
			break
		}
		if strength := ps.lexicon.ModifierStrength(prev); strength != 0 {
			valence += sign * strength * boosterDecay[d-1]
		}
	}
	return valence
}

// checkNegation looks back NegationWindow tokens for a negation that is not
// separated from position by a clause boundary.
func (ps *PolarityScorer) checkNegation(tokens []string, position int) bool {
	start := maxInt(0, position-ps.config.NegationWindow)
	for i := position - 1; i >= start; i-- {
		if isClauseBoundary(tokens[i]) {
			return false
		}
		if ps.lexicon.IsNegation(tokens[i]) {
			return true
		}
	}
	return false
}

func (ps *PolarityScorer) normalizeScore(sum float64) float64 {
	if sum == 0 {
		return 0
	}
	return clamp(sum/math.Sqrt(sum*sum+ps.config.Alpha), -1, 1)
}

// punctuationEmphasis returns the unsigned boost contributed by "!" and "?".
func punctuationEmphasis(tokens []string) float64 {
	var excl, quest int
	for _, tok := range tokens {
		switch tok {
		case "!":
			excl++
		case "?":
			quest++
		}
	}
	emphasis := float64(minInt(excl, maxExclamations)) * exclamationBoost
	if quest > 1 {
		emphasis += float64(minInt(quest, maxQuestions)) * questionBoost
	}
	return emphasis
}

// siftMass splits word valences into positive, negative and neutral shares
// that sum to 1.
func siftMass(valences []float64, emphasis float64) (pos, neg, neu float64) {
	for _, v := range valences {
		switch {
		case v > 0:
			pos += v + 1
		case v < 0:
			neg += v - 1
		default:
			neu++
		}
	}
	if pos > math.Abs(neg) {
		pos += emphasis
	} else if pos < math.Abs(neg) {
		neg -= emphasis
	}
	total := pos + math.Abs(neg) + neu
	if total == 0 {
		return 0, 0, 1
	}
	return pos / total, math.Abs(neg) / total, neu / total
}

// isClauseBoundary checks if a token marks a clause boundary
func isClauseBoundary(tok string) bool {
	switch tok {
	case ".", "!", "?", "but", "however", "although":
		return true
	}
	return false
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
