package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/newspulse/newspulse/internal/config"
	"github.com/newspulse/newspulse/internal/database"
	"github.com/newspulse/newspulse/internal/sentiment"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func ptr(s string) *string { return &s }

type stubTeacher struct {
	label sentiment.Label
}

func (s stubTeacher) Predict(ctx context.Context, text string) (sentiment.Prediction, error) {
	return sentiment.Prediction{Label: s.label, Confidence: 0.9, Model: sentiment.ModelTeacher}, nil
}

func newTestServer(t *testing.T, db *database.DB) *Server {
	t.Helper()
	analyzer := sentiment.NewAnalyzer(
		stubTeacher{label: sentiment.Positive},
		sentiment.NewStudent(5, 5000),
		sentiment.NewLexicon(),
	)
	srv, err := New(config.Default(), db, analyzer)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	return srv
}

func TestIndexRoute(t *testing.T) {
	db := openTestDB(t)
	db.InsertArticle("https://example.com/story", "Markets Rally", ptr("Example"), ptr("2026-08-29"), ptr("Some content"), 2)

	srv := newTestServer(t, db)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Markets Rally") {
		t.Error("expected article title in response")
	}
	if !strings.Contains(body, "untrained") {
		t.Error("expected untrained model status")
	}
}

func TestIndexSourceFilter(t *testing.T) {
	db := openTestDB(t)
	db.InsertArticle("https://example.com/one", "Guardian Story", ptr("Guardian"), nil, ptr("Content"), 1)
	db.InsertArticle("https://example.com/two", "Cnn Story", ptr("Cnn"), nil, ptr("Content"), 1)

	srv := newTestServer(t, db)

	req := httptest.NewRequest("GET", "/?source=Guardian", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Guardian Story") {
		t.Error("expected filtered source's article in response")
	}
	if strings.Contains(body, "Cnn Story") {
		t.Error("expected other sources' articles filtered out")
	}
	if !strings.Contains(body, "Articles from Guardian") {
		t.Error("expected filter heading in response")
	}
}

func TestIndexNotFound(t *testing.T) {
	db := openTestDB(t)
	srv := newTestServer(t, db)

	req := httptest.NewRequest("GET", "/nope", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestDashboardRoute(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.InsertArticle("https://example.com/story", "A", ptr("Example"), nil, ptr("Content here"), 2)
	db.UpdateSentiment(id, database.SentimentUpdate{Label: "positive", Score: 0.8, ModelUsed: "teacher"})
	db.InsertAnalysisRun(1, 0, "", "## Analysis Run\n\nAnalyzed **1** articles this run.")

	srv := newTestServer(t, db)

	req := httptest.NewRequest("GET", "/dashboard", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<svg") {
		t.Error("expected inline SVG charts")
	}
	// Markdown summary rendered to HTML.
	if !strings.Contains(body, "<strong>1</strong>") {
		t.Error("expected rendered markdown summary")
	}
}

func TestDashboardRunHistory(t *testing.T) {
	db := openTestDB(t)
	db.InsertAnalysisRun(3, 0, "", "## Analysis Run one")
	db.InsertAnalysisRun(7, 10, "Success! Model trained on 10 articles.", "## Analysis Run two")

	srv := newTestServer(t, db)

	req := httptest.NewRequest("GET", "/dashboard", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Run history") {
		t.Error("expected run history section")
	}
	// Latest run's summary is the one rendered.
	if !strings.Contains(body, "Analysis Run two") {
		t.Error("expected latest run summary rendered")
	}
	// Both runs appear in the history table.
	if !strings.Contains(body, "<td>3</td>") || !strings.Contains(body, "<td>7</td>") {
		t.Error("expected both runs' analyzed counts listed")
	}
}

func TestPredictRoute(t *testing.T) {
	db := openTestDB(t)
	srv := newTestServer(t, db)

	form := strings.NewReader("text=The+economy+is+doing+wonderfully+well")
	req := httptest.NewRequest("POST", "/predict", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "sentiment-positive") {
		t.Error("expected teacher prediction in response")
	}
	// Untrained student predicts neutral.
	if !strings.Contains(body, "sentiment-neutral") {
		t.Error("expected neutral student prediction in response")
	}
}

func TestPredictRequiresPost(t *testing.T) {
	db := openTestDB(t)
	srv := newTestServer(t, db)

	req := httptest.NewRequest("GET", "/predict", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Errorf("expected 302, got %d", rec.Code)
	}
}

func TestTrainRoute(t *testing.T) {
	db := openTestDB(t)
	srv := newTestServer(t, db)

	req := httptest.NewRequest("POST", "/train", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Errorf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("expected redirect to /dashboard, got %q", loc)
	}
}

func TestAnalyzeRoute(t *testing.T) {
	db := openTestDB(t)
	content := strings.Repeat("a wonderful celebration of community achievement and success ", 5)
	id, _ := db.InsertArticle("https://example.com/good", "Good News", ptr("Example"), nil, &content, 45)

	srv := newTestServer(t, db)

	req := httptest.NewRequest("POST", "/analyze", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Errorf("expected 302, got %d", rec.Code)
	}

	a, err := db.GetArticleByID(id)
	if err != nil {
		t.Fatal(err)
	}
	if a.SentimentLabel == nil || *a.SentimentLabel != "positive" {
		t.Errorf("expected article analyzed as positive, got %v", a.SentimentLabel)
	}
}

func TestStaticRoute(t *testing.T) {
	db := openTestDB(t)
	srv := newTestServer(t, db)

	req := httptest.NewRequest("GET", "/static/style.css", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "font-sans") {
		t.Error("expected CSS content")
	}
}
