package painpoint

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Probabilities is a probability triple in negative, neutral, positive order.
type Probabilities [numClasses]float64

// Negative returns P(negative).
func (p Probabilities) Negative() float64 { return p[0] }

// Neutral returns P(neutral).
func (p Probabilities) Neutral() float64 { return p[1] }

// Positive returns P(positive).
func (p Probabilities) Positive() float64 { return p[2] }

// Score returns P(positive) - P(negative), which lies in [-1, 1].
func (p Probabilities) Score() float64 {
	return p.Positive() - p.Negative()
}

// Label returns the most probable label.
func (p Probabilities) Label() Label {
	return classOrder[p.argmax()]
}

func (p Probabilities) argmax() int {
	best := 0
	for c := 1; c < numClasses; c++ {
		if p[c] > p[best] {
			best = c
		}
	}
	return best
}

// ensembleModel is the fitted state of a Classifier: a vectorizer and two base
// models combined by soft voting.
type ensembleModel struct {
	vectorizer *tfidfVectorizer
	present    [numClasses]bool
	nb         *naiveBayes
	lr         *logisticRegression
	metrics    TrainingMetrics
}

func (m *ensembleModel) predict(text string) Probabilities {
	x := m.vectorizer.transform(text)
	pNB := softmax(m.nb.jointLogLikelihood(x), m.present)
	pLR := softmax(m.lr.decision(x), m.present)

	var p Probabilities
	for c := 0; c < numClasses; c++ {
		p[c] = (pNB[c] + pLR[c]) / 2
	}
	return p
}

// Classifier is a trainable polarity classifier. It starts untrained; Fit or
// Load make it usable. All methods are safe for concurrent use: Fit and Load
// replace the model under an exclusive lock, readers share it.
type Classifier struct {
	mu     sync.RWMutex
	model  *ensembleModel
	config ClassifierConfig
	logger *slog.Logger
}

// NewClassifier creates an untrained classifier.
func NewClassifier(config ClassifierConfig) *Classifier {
	logger := config.Logger
	if logger == nil {
		logger = discardLogger()
	}
	return &Classifier{config: config, logger: logger}
}

// Trained reports whether the classifier can predict.
func (c *Classifier) Trained() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model != nil
}

// Fit trains the classifier on samples and returns held-out metrics. On error
// the previous state is kept.
func (c *Classifier) Fit(samples []Sample) (TrainingMetrics, error) {
	need := max(c.config.MinSamples, MinTrainingSamples)
	if len(samples) < need {
		return TrainingMetrics{}, fmt.Errorf("%w: got %d samples, need at least %d",
			ErrInsufficientData, len(samples), need)
	}

	distinct := make(map[Label]int)
	for i, s := range samples {
		if !s.Label.Valid() {
			return TrainingMetrics{}, fmt.Errorf("%w: sample %d has label %q", ErrInvalidLabel, i, s.Label)
		}
		distinct[s.Label]++
	}
	if len(distinct) < 2 {
		return TrainingMetrics{}, fmt.Errorf("%w: need at least two distinct labels, got %d",
			ErrInsufficientData, len(distinct))
	}

	c.logger.Info("training classifier", "samples", len(samples),
		"positive", distinct[Positive], "negative", distinct[Negative], "neutral", distinct[Neutral])

	model, metrics, err := trainEnsemble(samples, c.config)
	if err != nil {
		return TrainingMetrics{}, err
	}

	c.mu.Lock()
	c.model = model
	c.mu.Unlock()

	c.logger.Info("classifier trained", "accuracy", metrics.Accuracy,
		"vocabulary", metrics.VocabularySize, "duration", metrics.TrainingTime)
	return metrics, nil
}

// Predict returns the class probabilities of text.
func (c *Classifier) Predict(text string) (Probabilities, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.model == nil {
		return Probabilities{}, ErrNotTrained
	}
	return c.model.predict(text), nil
}

// Metrics returns the evaluation metrics recorded when the model was fitted.
func (c *Classifier) Metrics() (TrainingMetrics, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.model == nil {
		return TrainingMetrics{}, ErrNotTrained
	}
	return c.model.metrics, nil
}

// Save writes the fitted model to w.
func (c *Classifier) Save(w io.Writer) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.model == nil {
		return ErrNotTrained
	}
	return encodeModel(w, c.model)
}

// Load replaces the classifier state with a model read from r.
func (c *Classifier) Load(r io.Reader) error {
	model, err := decodeModel(r)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.model = model
	c.mu.Unlock()
	return nil
}
