package sentiment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

// TeacherClient is the oracle the analyzer labels articles with. The HTTP
// Teacher implements it; tests substitute stubs.
type TeacherClient interface {
	Predict(ctx context.Context, text string) (Prediction, error)
}

// Analyzer composes the teacher, student and fallback into one analysis
// surface. The teacher labels everything stored; its labels later become the
// student's training signal. All dependencies are injected, no package state.
type Analyzer struct {
	teacher  TeacherClient
	student  *Student
	fallback *Lexicon
}

// NewAnalyzer wires the three predictors together.
func NewAnalyzer(teacher TeacherClient, student *Student, fallback *Lexicon) *Analyzer {
	return &Analyzer{teacher: teacher, student: student, fallback: fallback}
}

// Student exposes the student classifier for direct inspection.
func (a *Analyzer) Student() *Student {
	return a.student
}

// Analyze produces the authoritative label for one text. The teacher decides;
// when it reports failure the lexicon fallback decides instead, and the
// result's Model field records which path ran.
func (a *Analyzer) Analyze(ctx context.Context, text string) Prediction {
	if strings.TrimSpace(text) == "" {
		p := neutral()
		p.Model = ModelFallback
		return p
	}

	pred, err := a.teacher.Predict(ctx, text)
	if err != nil {
		if !errors.Is(err, ErrTeacherUnavailable) {
			log.Printf("teacher prediction failed: %v", err)
		}
		return a.fallback.Predict(text)
	}
	return pred
}

// TrainOnCorpus retrains the student on stored records carrying a
// positive/negative label and non-empty text. Returns a human-readable
// outcome; the empty string means below-minimum data and no state change.
func (a *Analyzer) TrainOnCorpus(records []Record) string {
	samples := make([]Sample, 0, len(records))
	for _, r := range records {
		if r.Label != Positive && r.Label != Negative {
			continue
		}
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		samples = append(samples, Sample{Text: r.Text, Label: r.Label})
	}

	err := a.student.Train(samples)
	if errors.Is(err, ErrNotEnoughData) {
		return ""
	}
	if err != nil {
		log.Printf("student training failed: %v", err)
		return fmt.Sprintf("Error: %v", err)
	}

	log.Printf("trained student classifier on %d articles", len(samples))
	return fmt.Sprintf("Success! Model trained on %d articles.", len(samples))
}

// PredictDual returns both models' independent opinions on one text. The
// teacher slot degrades to the fallback when the teacher fails; the student
// answers from whatever fitted state it currently holds.
func (a *Analyzer) PredictDual(ctx context.Context, text string) DualPrediction {
	return DualPrediction{
		Teacher: a.Analyze(ctx, text),
		Student: a.student.Predict(text),
	}
}

// WarmStart is the explicit startup training step: if labeled records
// already exist, train the student on them before serving. Safe to call with
// an empty corpus.
func (a *Analyzer) WarmStart(records []Record) {
	if len(records) == 0 {
		log.Println("no labeled articles found; student classifier starts empty")
		return
	}
	if msg := a.TrainOnCorpus(records); msg != "" {
		log.Printf("startup training: %s", msg)
	} else {
		log.Printf("startup training skipped: fewer than %d usable articles", a.student.MinSamples())
	}
}
