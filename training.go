package painpoint

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MinTrainingSamples is the smallest training set Fit accepts, whatever
// ClassifierConfig.MinSamples says.
const MinTrainingSamples = 100

// ClassifierConfig contains configuration for classifier training
type ClassifierConfig struct {
	MinSamples int     // Fit refuses smaller training sets; never below MinTrainingSamples
	TestSize   float64 // Share of each label held out for evaluation
	Seed       int64   // Seed of the stratified shuffle
	Vectorizer VectorizerConfig

	NBAlpha          float64 // Additive smoothing of the naive Bayes model
	C                float64 // Inverse L2 strength of the logistic model
	Iterations       int     // Full-batch gradient steps of the logistic model
	LearningRate     float64
	Logger           *slog.Logger
	ProgressCallback func(iteration int, loss float64)
}

// DefaultClassifierConfig returns a default training configuration
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		MinSamples:   MinTrainingSamples,
		TestSize:     0.2,
		Seed:         42,
		Vectorizer:   DefaultVectorizerConfig(),
		NBAlpha:      0.1,
		C:            1.0,
		Iterations:   300,
		LearningRate: 1.0,
	}
}

// Sample is one labeled training text.
type Sample struct {
	Text  string `json:"text"`
	Label Label  `json:"label"`
}

// ClassReport holds the held-out metrics of one label.
type ClassReport struct {
	Label     Label   `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1Score   float64 `json:"f1_score"`
	Support   int     `json:"support"`
}

// TrainingMetrics contains metrics from training, measured on the held-out
// split.
type TrainingMetrics struct {
	Accuracy        float64                     `json:"accuracy"`
	Classes         [numClasses]Label           `json:"classes"`
	ConfusionMatrix [numClasses][numClasses]int `json:"confusion_matrix"` // rows are true labels
	Report          []ClassReport               `json:"classification_report"`
	TrainSamples    int                         `json:"train_samples"`
	TestSamples     int                         `json:"test_samples"`
	VocabularySize  int                         `json:"vocabulary_size"`
	TrainingTime    time.Duration               `json:"training_time"`
	TrainedAt       time.Time                   `json:"trained_at"`
}

// naiveBayes is a multinomial event model over tf-idf weights.
type naiveBayes struct {
	classLogPrior  [numClasses]float64
	featureLogProb *mat.Dense // classes x terms
}

func (nb *naiveBayes) jointLogLikelihood(x sparseVector) [numClasses]float64 {
	var jll [numClasses]float64
	for c := 0; c < numClasses; c++ {
		row := nb.featureLogProb.RawRowView(c)
		jll[c] = nb.classLogPrior[c]
		for k, i := range x.idx {
			jll[c] += row[i] * x.val[k]
		}
	}
	return jll
}

// logisticRegression is a multinomial linear model.
type logisticRegression struct {
	weights *mat.Dense // classes x terms
	bias    [numClasses]float64
}

func (lr *logisticRegression) decision(x sparseVector) [numClasses]float64 {
	var z [numClasses]float64
	for c := 0; c < numClasses; c++ {
		row := lr.weights.RawRowView(c)
		z[c] = lr.bias[c]
		for k, i := range x.idx {
			z[c] += row[i] * x.val[k]
		}
	}
	return z
}

// softmax turns scores into probabilities over the labels seen in training.
// Labels not present get probability 0.
func softmax(scores [numClasses]float64, present [numClasses]bool) [numClasses]float64 {
	logits := make([]float64, 0, numClasses)
	for c := 0; c < numClasses; c++ {
		if present[c] {
			logits = append(logits, scores[c])
		}
	}
	var p [numClasses]float64
	if len(logits) == 0 {
		return p
	}
	lse := floats.LogSumExp(logits)
	for c := 0; c < numClasses; c++ {
		if present[c] {
			p[c] = math.Exp(scores[c] - lse)
		}
	}
	return p
}

// stratifiedSplit shuffles the indices of each label with a seeded source and
// holds out testSize of them. Labels with fewer than two samples stay in the
// training split.
func stratifiedSplit(labels []Label, testSize float64, seed int64) (train, test []int) {
	rng := rand.New(rand.NewSource(seed))
	for _, class := range classOrder {
		var idx []int
		for i, l := range labels {
			if l == class {
				idx = append(idx, i)
			}
		}
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

		nTest := int(math.Round(testSize * float64(len(idx))))
		if len(idx) < 2 {
			nTest = 0
		} else if nTest >= len(idx) {
			nTest = len(idx) - 1
		}
		test = append(test, idx[:nTest]...)
		train = append(train, idx[nTest:]...)
	}
	sort.Ints(train)
	sort.Ints(test)
	return train, test
}

func fitNaiveBayes(rows []sparseVector, y []int, nFeatures int, alpha float64) *naiveBayes {
	counts := mat.NewDense(numClasses, nFeatures, nil)
	var classCount [numClasses]float64
	for r, x := range rows {
		classCount[y[r]]++
		row := counts.RawRowView(y[r])
		for k, i := range x.idx {
			row[i] += x.val[k]
		}
	}

	nb := &naiveBayes{featureLogProb: mat.NewDense(numClasses, nFeatures, nil)}
	total := floats.Sum(classCount[:])
	for c := 0; c < numClasses; c++ {
		if classCount[c] > 0 {
			nb.classLogPrior[c] = math.Log(classCount[c] / total)
		} else {
			nb.classLogPrior[c] = math.Inf(-1)
		}
		row := counts.RawRowView(c)
		denom := math.Log(floats.Sum(row) + alpha*float64(nFeatures))
		out := nb.featureLogProb.RawRowView(c)
		for i, v := range row {
			out[i] = math.Log(v+alpha) - denom
		}
	}
	return nb
}

func fitLogisticRegression(rows []sparseVector, y []int, nFeatures int, present [numClasses]bool, config ClassifierConfig) *logisticRegression {
	lr := &logisticRegression{weights: mat.NewDense(numClasses, nFeatures, nil)}
	n := float64(len(rows))
	grad := mat.NewDense(numClasses, nFeatures, nil)

	for iter := 0; iter < config.Iterations; iter++ {
		grad.Zero()
		var gradBias [numClasses]float64
		var loss float64

		for r, x := range rows {
			p := softmax(lr.decision(x), present)
			loss -= math.Log(math.Max(p[y[r]], 1e-15))
			for c := 0; c < numClasses; c++ {
				if !present[c] {
					continue
				}
				e := p[c]
				if c == y[r] {
					e--
				}
				gradBias[c] += e
				row := grad.RawRowView(c)
				for k, i := range x.idx {
					row[i] += e * x.val[k]
				}
			}
		}

		// mean data gradient plus the L2 term w / (C*n)
		grad.Scale(1/n, grad)
		var reg mat.Dense
		reg.Scale(1/(config.C*n), lr.weights)
		grad.Add(grad, &reg)
		grad.Scale(config.LearningRate, grad)
		lr.weights.Sub(lr.weights, grad)
		for c := 0; c < numClasses; c++ {
			lr.bias[c] -= config.LearningRate * gradBias[c] / n
		}

		if config.ProgressCallback != nil {
			config.ProgressCallback(iter, loss/n)
		}
	}
	return lr
}

// evaluate scores predictions against the held-out labels.
func evaluate(truth, predicted []int) TrainingMetrics {
	m := TrainingMetrics{Classes: classOrder, TestSamples: len(truth)}
	correct := 0
	for i := range truth {
		m.ConfusionMatrix[truth[i]][predicted[i]]++
		if truth[i] == predicted[i] {
			correct++
		}
	}
	if len(truth) > 0 {
		m.Accuracy = float64(correct) / float64(len(truth))
	}

	for c, label := range classOrder {
		var tp, fp, fn int
		tp = m.ConfusionMatrix[c][c]
		for o := 0; o < numClasses; o++ {
			if o == c {
				continue
			}
			fp += m.ConfusionMatrix[o][c]
			fn += m.ConfusionMatrix[c][o]
		}
		r := ClassReport{Label: label, Support: tp + fn}
		if tp+fp > 0 {
			r.Precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			r.Recall = float64(tp) / float64(tp+fn)
		}
		if r.Precision+r.Recall > 0 {
			r.F1Score = 2 * r.Precision * r.Recall / (r.Precision + r.Recall)
		}
		m.Report = append(m.Report, r)
	}
	return m
}

// trainEnsemble fits the vectorizer on every sample, fits both base models on
// the training split and evaluates the soft-voting ensemble on the rest.
func trainEnsemble(samples []Sample, config ClassifierConfig) (*ensembleModel, TrainingMetrics, error) {
	start := time.Now()

	texts := make([]string, len(samples))
	labels := make([]Label, len(samples))
	for i, s := range samples {
		texts[i] = s.Text
		labels[i] = s.Label
	}

	vectorizer := fitVectorizer(texts, config.Vectorizer)
	if vectorizer.size() == 0 {
		return nil, TrainingMetrics{}, fmt.Errorf("%w: no term appears in at least %d documents", ErrInsufficientData, config.Vectorizer.MinDF)
	}
	trainIdx, testIdx := stratifiedSplit(labels, config.TestSize, config.Seed)

	rows := make([]sparseVector, len(trainIdx))
	y := make([]int, len(trainIdx))
	var present [numClasses]bool
	for k, i := range trainIdx {
		rows[k] = vectorizer.transform(texts[i])
		y[k] = classIndex(labels[i])
		present[y[k]] = true
	}

	model := &ensembleModel{
		vectorizer: vectorizer,
		present:    present,
		nb:         fitNaiveBayes(rows, y, vectorizer.size(), config.NBAlpha),
		lr:         fitLogisticRegression(rows, y, vectorizer.size(), present, config),
	}

	truth := make([]int, len(testIdx))
	predicted := make([]int, len(testIdx))
	for k, i := range testIdx {
		truth[k] = classIndex(labels[i])
		predicted[k] = model.predict(texts[i]).argmax()
	}

	metrics := evaluate(truth, predicted)
	metrics.TrainSamples = len(trainIdx)
	metrics.VocabularySize = vectorizer.size()
	metrics.TrainingTime = time.Since(start)
	metrics.TrainedAt = time.Now().UTC()
	model.metrics = metrics
	return model, metrics, nil
}
