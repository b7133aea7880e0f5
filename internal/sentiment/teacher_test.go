package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newInferenceServer fakes a HuggingFace-style text-classification endpoint.
// handle receives the submitted input text and returns the class scores.
func newInferenceServer(t *testing.T, handle func(input string) []classScore) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Inputs string `json:"inputs"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode([][]classScore{handle(req.Inputs)})
	}))
}

func TestTeacherPredict(t *testing.T) {
	srv := newInferenceServer(t, func(input string) []classScore {
		if strings.Contains(input, "wonderful") {
			return []classScore{{Label: "POSITIVE", Score: 0.97}, {Label: "NEGATIVE", Score: 0.03}}
		}
		return []classScore{{Label: "NEGATIVE", Score: 0.91}, {Label: "POSITIVE", Score: 0.09}}
	})
	defer srv.Close()

	teacher := NewTeacher(srv.URL, "test-model", "", 512)
	if !teacher.Available() {
		t.Fatal("expected teacher to be available")
	}

	p, err := teacher.Predict(context.Background(), "a wonderful day")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Label != Positive || p.Confidence != 0.97 {
		t.Errorf("expected (positive, 0.97), got (%s, %f)", p.Label, p.Confidence)
	}
	if p.Model != ModelTeacher {
		t.Errorf("expected teacher model tag, got %s", p.Model)
	}

	p, err = teacher.Predict(context.Background(), "grim tidings")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Label != Negative {
		t.Errorf("expected negative, got %s", p.Label)
	}
}

func TestTeacherTruncatesInput(t *testing.T) {
	var gotTokens int
	srv := newInferenceServer(t, func(input string) []classScore {
		gotTokens = len(strings.Fields(input))
		return []classScore{{Label: "POSITIVE", Score: 0.6}}
	})
	defer srv.Close()

	teacher := NewTeacher(srv.URL, "test-model", "", 512)

	long := strings.Repeat("word ", 2000)
	if _, err := teacher.Predict(context.Background(), long); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotTokens != 512 {
		t.Errorf("expected input truncated to 512 tokens, got %d", gotTokens)
	}
}

func TestTeacherUnavailableEndpoint(t *testing.T) {
	// Server closed before the probe runs
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	teacher := NewTeacher(srv.URL, "test-model", "", 512)
	if teacher.Available() {
		t.Fatal("expected teacher to be unavailable")
	}

	_, err := teacher.Predict(context.Background(), "anything")
	if !errors.Is(err, ErrTeacherUnavailable) {
		t.Errorf("expected ErrTeacherUnavailable, got %v", err)
	}
}

func TestMapModelLabel(t *testing.T) {
	cases := map[string]Label{
		"POSITIVE": Positive,
		"positive": Positive,
		"LABEL_1":  Positive,
		"NEGATIVE": Negative,
		"LABEL_0":  Negative,
		"MIXED":    Neutral,
	}
	for in, want := range cases {
		if got := mapModelLabel(in); got != want {
			t.Errorf("mapModelLabel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestParseClassificationFlatShape(t *testing.T) {
	label, score, err := parseClassification([]byte(`[{"label":"NEGATIVE","score":0.8},{"label":"POSITIVE","score":0.2}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != "NEGATIVE" || score != 0.8 {
		t.Errorf("expected (NEGATIVE, 0.8), got (%s, %f)", label, score)
	}
}

func TestParseClassificationGarbage(t *testing.T) {
	if _, _, err := parseClassification([]byte(`{"error":"model loading"}`)); err == nil {
		t.Error("expected error for non-classification payload")
	}
}
