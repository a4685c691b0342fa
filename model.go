package painpoint

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
)

// artifactVersion is bumped whenever the encoded layout changes.
const artifactVersion = 1

// artifact is the gob layout of a fitted ensembleModel. Matrices are stored
// in their binary form.
type artifact struct {
	Version int

	Vocabulary map[string]int
	IDF        []float64
	MaxNGram   int
	Present    [numClasses]bool

	NBClassLogPrior  [numClasses]float64
	NBFeatureLogProb []byte
	LRWeights        []byte
	LRBias           [numClasses]float64

	Metrics TrainingMetrics
}

func encodeModel(w io.Writer, m *ensembleModel) error {
	nbProb, err := m.nb.featureLogProb.MarshalBinary()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	lrWeights, err := m.lr.weights.MarshalBinary()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	a := artifact{
		Version:          artifactVersion,
		Vocabulary:       m.vectorizer.vocabulary,
		IDF:              m.vectorizer.idf,
		MaxNGram:         m.vectorizer.maxNGram,
		Present:          m.present,
		NBClassLogPrior:  m.nb.classLogPrior,
		NBFeatureLogProb: nbProb,
		LRWeights:        lrWeights,
		LRBias:           m.lr.bias,
		Metrics:          m.metrics,
	}
	if err := gob.NewEncoder(w).Encode(&a); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return nil
}

func decodeModel(r io.Reader) (*ensembleModel, error) {
	var a artifact
	if err := gob.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrSerialization, err)
	}
	if a.Version != artifactVersion {
		return nil, fmt.Errorf("%w: artifact version %d, want %d", ErrSerialization, a.Version, artifactVersion)
	}

	var nbProb, lrWeights mat.Dense
	if err := nbProb.UnmarshalBinary(a.NBFeatureLogProb); err != nil {
		return nil, fmt.Errorf("%w: naive bayes weights: %v", ErrSerialization, err)
	}
	if err := lrWeights.UnmarshalBinary(a.LRWeights); err != nil {
		return nil, fmt.Errorf("%w: logistic weights: %v", ErrSerialization, err)
	}

	n := len(a.IDF)
	if len(a.Vocabulary) != n {
		return nil, fmt.Errorf("%w: vocabulary has %d terms but %d idf weights", ErrSerialization, len(a.Vocabulary), n)
	}
	for _, d := range []*mat.Dense{&nbProb, &lrWeights} {
		if r, c := d.Dims(); r != numClasses || c != n {
			return nil, fmt.Errorf("%w: weight matrix is %dx%d, want %dx%d", ErrSerialization, r, c, numClasses, n)
		}
	}
	for term, i := range a.Vocabulary {
		if i < 0 || i >= n {
			return nil, fmt.Errorf("%w: term %q has index %d out of range", ErrSerialization, term, i)
		}
	}

	return &ensembleModel{
		vectorizer: &tfidfVectorizer{vocabulary: a.Vocabulary, idf: a.IDF, maxNGram: a.MaxNGram},
		present:    a.Present,
		nb:         &naiveBayes{classLogPrior: a.NBClassLogPrior, featureLogProb: &nbProb},
		lr:         &logisticRegression{weights: &lrWeights, bias: a.LRBias},
		metrics:    a.Metrics,
	}, nil
}

// MarshalBinary returns the encoded model, for storing it in a blob store.
func (c *Classifier) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary loads a model produced by MarshalBinary.
func (c *Classifier) UnmarshalBinary(data []byte) error {
	return c.Load(bytes.NewReader(data))
}

// SaveFile writes the model to path, creating parent directories.
func (c *Classifier) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads a model written by SaveFile.
func (c *Classifier) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return c.Load(f)
}
