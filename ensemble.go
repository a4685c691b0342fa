package painpoint

import "log/slog"

// Ensemble weights with and without a trained classifier.
const (
	lexiconWeight     = 0.4
	modelWeight       = 0.5
	painWeight        = 0.1
	lexiconOnlyWeight = 0.8
	lexiconOnlyPain   = 0.2

	labelThreshold = 0.1
)

// tierPenalty is the additive pain adjustment of a tier with at least one hit.
var tierPenalty = map[Tier]float64{
	Critical: -0.3,
	High:     -0.2,
	Medium:   -0.1,
}

const intensifierFactor = 1.2

// EnsembleScorer combines the lexicon score, the classifier (when trained)
// and the pain adjustment into one (score, label) pair.
type EnsembleScorer struct {
	features   *FeatureExtractor
	classifier *Classifier
	logger     *slog.Logger
}

// NewEnsembleScorer creates a scorer. classifier may be nil, in which case
// only the lexicon and the pain adjustment are used.
func NewEnsembleScorer(features *FeatureExtractor, classifier *Classifier, logger *slog.Logger) *EnsembleScorer {
	if features == nil {
		features = NewFeatureExtractor(nil)
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &EnsembleScorer{features: features, classifier: classifier, logger: logger}
}

// Score returns the final polarity of text and its label. It never fails;
// empty text scores (0, neutral).
func (es *EnsembleScorer) Score(text string) (float64, Label) {
	score, _ := es.score(text)
	return score, LabelFor(score)
}

// score also returns the features it computed so callers need not extract
// them twice.
func (es *EnsembleScorer) score(text string) (float64, FeatureVector) {
	if Normalize(text) == "" {
		return 0, FeatureVector{Lexicon: PolarityScores{Neutral: 1}}
	}
	fv := es.features.Extract(text)
	lexicon := fv.Lexicon.Compound
	adjustment := PainAdjustment(fv)

	var final float64
	if es.classifier != nil && es.classifier.Trained() {
		probs, err := es.classifier.Predict(text)
		if err != nil {
			// A model dropped between Trained and Predict counts as neutral.
			es.logger.Warn("classifier prediction failed", "error", err)
		}
		final = lexiconWeight*lexicon + modelWeight*probs.Score() + painWeight*adjustment
	} else {
		final = lexiconOnlyWeight*lexicon + lexiconOnlyPain*adjustment
	}
	return clamp(final, -1, 1), fv
}

// PainAdjustment sums the penalties of every tier with a hit and scales the
// total by 1.2 when the text contains an intensifier. The scaling applies once
// to the combined total, not per tier.
func PainAdjustment(fv FeatureVector) float64 {
	var adjustment float64
	for _, tier := range Tiers {
		if fv.TierHits(tier) > 0 {
			adjustment += tierPenalty[tier]
		}
	}
	if fv.IntensifierCount > 0 {
		adjustment *= intensifierFactor
	}
	return adjustment
}

// LabelFor maps a final score to its label.
func LabelFor(score float64) Label {
	switch {
	case score > labelThreshold:
		return Positive
	case score < -labelThreshold:
		return Negative
	}
	return Neutral
}
