package sentiment

import (
	"context"
	"testing"
)

// stubTeacher implements TeacherClient for testing.
type stubTeacher struct {
	pred Prediction
	err  error
}

func (s *stubTeacher) Predict(_ context.Context, _ string) (Prediction, error) {
	return s.pred, s.err
}

func newTestAnalyzer(teacher TeacherClient) *Analyzer {
	return NewAnalyzer(teacher, NewStudent(5, 5000), NewLexicon())
}

func TestAnalyzeUsesTeacher(t *testing.T) {
	teacher := &stubTeacher{pred: Prediction{Label: Positive, Confidence: 0.95, Model: ModelTeacher}}
	a := newTestAnalyzer(teacher)

	p := a.Analyze(context.Background(), "markets had a strong day")
	if p.Label != Positive || p.Model != ModelTeacher {
		t.Errorf("expected teacher-labeled positive, got (%s, %s)", p.Label, p.Model)
	}
}

func TestAnalyzeFallsBackWhenTeacherUnavailable(t *testing.T) {
	teacher := &stubTeacher{err: ErrTeacherUnavailable}
	a := newTestAnalyzer(teacher)

	p := a.Analyze(context.Background(), "this is bad")
	if p.Model != ModelFallback {
		t.Errorf("expected fallback path, got %s", p.Model)
	}
	if p.Label != Negative {
		t.Errorf("expected negative from lexicon, got %s", p.Label)
	}
}

func TestAnalyzeEmptyText(t *testing.T) {
	teacher := &stubTeacher{pred: Prediction{Label: Positive, Confidence: 0.9, Model: ModelTeacher}}
	a := newTestAnalyzer(teacher)

	p := a.Analyze(context.Background(), "   ")
	if p.Label != Neutral || p.Confidence != 0 {
		t.Errorf("expected (neutral, 0.0) for empty text, got (%s, %f)", p.Label, p.Confidence)
	}
}

func TestTrainOnCorpusEndToEnd(t *testing.T) {
	a := newTestAnalyzer(&stubTeacher{err: ErrTeacherUnavailable})

	records := []Record{
		{URL: "https://a.com", Text: "great news today", Label: "positive"},
		{URL: "https://b.com", Text: "terrible disaster strikes", Label: "negative"},
		{URL: "https://c.com", Text: "good outcome reported", Label: "positive"},
		{URL: "https://d.com", Text: "awful tragedy unfolds", Label: "negative"},
		{URL: "https://e.com", Text: "positive development seen", Label: "positive"},
	}

	msg := a.TrainOnCorpus(records)
	if msg != "Success! Model trained on 5 articles." {
		t.Errorf("unexpected status message: %q", msg)
	}

	p := a.Student().Predict("wonderful achievement")
	if p.Label != Positive {
		t.Errorf("expected positive, got %s", p.Label)
	}
	if p.Confidence <= 0.5 {
		t.Errorf("expected confidence > 0.5, got %f", p.Confidence)
	}
}

func TestTrainOnCorpusBelowMinimum(t *testing.T) {
	a := newTestAnalyzer(&stubTeacher{err: ErrTeacherUnavailable})

	records := []Record{
		{URL: "https://a.com", Text: "great news", Label: "positive"},
		{URL: "https://b.com", Text: "bad news", Label: "negative"},
		{URL: "https://c.com", Text: "a neutral item", Label: "neutral"},
		{URL: "https://d.com", Text: "", Label: "positive"},
	}

	if msg := a.TrainOnCorpus(records); msg != "" {
		t.Errorf("expected empty status for below-minimum corpus, got %q", msg)
	}
	if a.Student().IsFitted() {
		t.Error("expected student to remain unfitted")
	}
}

func TestPredictDualIndependentOpinions(t *testing.T) {
	teacher := &stubTeacher{pred: Prediction{Label: Negative, Confidence: 0.8, Model: ModelTeacher}}
	a := newTestAnalyzer(teacher)

	dual := a.PredictDual(context.Background(), "some article text")
	if dual.Teacher.Label != Negative || dual.Teacher.Model != ModelTeacher {
		t.Errorf("unexpected teacher opinion: %+v", dual.Teacher)
	}
	// Student untrained: defined neutral default, unaffected by the teacher
	if dual.Student.Label != Neutral || dual.Student.Confidence != 0 {
		t.Errorf("expected untrained student (neutral, 0.0), got %+v", dual.Student)
	}
	if dual.Student.Model != ModelStudent {
		t.Errorf("expected student model tag, got %s", dual.Student.Model)
	}
}

func TestWarmStartTrainsWhenDataExists(t *testing.T) {
	a := newTestAnalyzer(&stubTeacher{err: ErrTeacherUnavailable})

	var records []Record
	for _, s := range trainingSamples {
		records = append(records, Record{Text: s.Text, Label: s.Label})
	}

	a.WarmStart(records)
	if !a.Student().IsFitted() {
		t.Error("expected student fitted after warm start")
	}

	a2 := newTestAnalyzer(&stubTeacher{err: ErrTeacherUnavailable})
	a2.WarmStart(nil)
	if a2.Student().IsFitted() {
		t.Error("expected student unfitted after empty warm start")
	}
}
