// Package sentiment implements the dual-model sentiment core: a pretrained
// transformer served over HTTP (the teacher), a locally trained logistic
// regression (the student) that learns from the teacher's labels, and a
// lexicon scorer used when the teacher is unreachable.
package sentiment

import "errors"

// Label is a sentiment class.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// Model identifies which predictor produced a result.
type Model string

const (
	ModelTeacher  Model = "teacher"
	ModelStudent  Model = "student"
	ModelFallback Model = "fallback"
)

// Prediction is the result of classifying one text. Confidence is in [0, 1].
// A Neutral label with confidence 0 is the universal "could not determine"
// signal.
type Prediction struct {
	Label      Label
	Confidence float64
	Model      Model
}

// Sample is one labeled training example for the student.
type Sample struct {
	Text  string
	Label Label
}

// Record is a stored article as the orchestrator receives it for training.
type Record struct {
	URL   string
	Text  string
	Label Label
}

// DualPrediction holds both models' independent opinions on one text.
type DualPrediction struct {
	Teacher Prediction
	Student Prediction
}

var (
	// ErrNotEnoughData is returned by Train when fewer than the minimum
	// number of valid samples are available. Prior fitted state is kept.
	ErrNotEnoughData = errors.New("not enough training data")

	// ErrTeacherUnavailable is returned by the teacher when the model
	// endpoint could not be reached at startup or a request failed.
	ErrTeacherUnavailable = errors.New("teacher model unavailable")

	// ErrEmptyCorpus is returned when fitting a vectorizer on no documents.
	ErrEmptyCorpus = errors.New("empty corpus")
)

func neutral() Prediction {
	return Prediction{Label: Neutral, Confidence: 0}
}
