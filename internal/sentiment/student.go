package sentiment

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

const (
	trainEpochs  = 300
	learningRate = 0.5
	l2Penalty    = 1e-4
)

// Student is a logistic regression classifier over TF-IDF vectors. It is
// retrained from scratch on each training call; a successful train atomically
// replaces the previous fitted state, a failed one leaves it untouched.
//
// Train and Predict are not safe for concurrent use; callers needing that
// must serialize externally.
type Student struct {
	minSamples  int
	maxFeatures int
	state       *studentState
}

// studentState is one immutable fitted snapshot: vocabulary plus weights.
type studentState struct {
	vec     *vectorizer
	weights []float64
	bias    float64
}

// NewStudent creates an untrained student classifier.
func NewStudent(minSamples, maxFeatures int) *Student {
	if minSamples <= 0 {
		minSamples = 5
	}
	return &Student{minSamples: minSamples, maxFeatures: maxFeatures}
}

// IsFitted reports whether at least one training run has succeeded.
func (s *Student) IsFitted() bool {
	return s.state != nil
}

// MinSamples returns the minimum number of valid samples Train requires.
func (s *Student) MinSamples() int {
	return s.minSamples
}

// Train fits the vectorizer and classifier on the given samples. Samples
// with labels other than positive/negative, or with empty text, are dropped.
// Returns ErrNotEnoughData when fewer than MinSamples valid samples remain;
// in that case (and on any other failure) the prior fitted state is kept.
func (s *Student) Train(samples []Sample) error {
	valid := make([]Sample, 0, len(samples))
	for _, sm := range samples {
		if sm.Label != Positive && sm.Label != Negative {
			continue
		}
		if strings.TrimSpace(sm.Text) == "" {
			continue
		}
		valid = append(valid, sm)
	}

	if len(valid) < s.minSamples {
		return fmt.Errorf("%w: %d valid samples, need %d", ErrNotEnoughData, len(valid), s.minSamples)
	}

	texts := make([]string, len(valid))
	for i, sm := range valid {
		texts[i] = sm.Text
	}

	vec := newVectorizer(s.maxFeatures)
	if err := vec.fit(texts); err != nil {
		return fmt.Errorf("fitting vectorizer: %w", err)
	}

	vectors := make([][]float64, len(valid))
	targets := make([]float64, len(valid))
	for i, sm := range valid {
		vectors[i] = vec.transform(sm.Text)
		if sm.Label == Positive {
			targets[i] = 1
		}
	}

	weights, bias := fitLogistic(vectors, targets, vec.size())

	// Swap in the new state only after everything succeeded.
	s.state = &studentState{vec: vec, weights: weights, bias: bias}
	return nil
}

// Predict classifies text with the current fitted state. Before the first
// successful Train it returns (neutral, 0) by contract, not as an error.
// Malformed or empty input also yields the neutral default.
func (s *Student) Predict(text string) Prediction {
	state := s.state
	if state == nil || strings.TrimSpace(text) == "" {
		p := neutral()
		p.Model = ModelStudent
		return p
	}

	vec := state.vec.transform(text)
	p := sigmoid(floats.Dot(state.weights, vec) + state.bias)

	label := Negative
	conf := 1 - p
	if p >= 0.5 {
		label = Positive
		conf = p
	}
	return Prediction{Label: label, Confidence: conf, Model: ModelStudent}
}

// fitLogistic trains weights by full-batch gradient descent with a small L2
// penalty. The corpora here are tiny (tens to hundreds of articles), so
// plain gradient descent converges comfortably.
func fitLogistic(vectors [][]float64, targets []float64, dim int) ([]float64, float64) {
	weights := make([]float64, dim)
	grad := make([]float64, dim)
	bias := 0.0
	n := float64(len(vectors))

	for epoch := 0; epoch < trainEpochs; epoch++ {
		for i := range grad {
			grad[i] = 0
		}
		biasGrad := 0.0

		for i, x := range vectors {
			err := sigmoid(floats.Dot(weights, x)+bias) - targets[i]
			floats.AddScaled(grad, err, x)
			biasGrad += err
		}

		floats.AddScaled(grad, l2Penalty*n, weights)
		floats.AddScaled(weights, -learningRate/n, grad)
		bias -= learningRate / n * biasGrad
	}

	return weights, bias
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
