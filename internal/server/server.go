// Package server provides the web UI: article browsing, scrape/analyze
// controls, ad-hoc predictions, and the sentiment dashboard.
package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/newspulse/newspulse/internal/config"
	"github.com/newspulse/newspulse/internal/database"
	"github.com/newspulse/newspulse/internal/pipeline"
	"github.com/newspulse/newspulse/internal/report"
	"github.com/newspulse/newspulse/internal/scrape"
	"github.com/newspulse/newspulse/internal/sentiment"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var md = goldmark.New()

// Server is the HTTP server for the newspulse web UI.
type Server struct {
	cfg      *config.Config
	db       *database.DB
	analyzer *sentiment.Analyzer
	pages    map[string]*template.Template
	mux      *http.ServeMux
}

// New creates a new Server.
func New(cfg *config.Config, db *database.DB, analyzer *sentiment.Analyzer) (*Server, error) {
	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}

	// Parse base template first
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// For each page template, clone the base and parse the page into the clone.
	// This gives each page its own {{define "content"}} and {{define "title"}}.
	pageNames := []string{"index.html", "dashboard.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		_, err = clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	s := &Server{cfg: cfg, db: db, analyzer: analyzer, pages: pages, mux: http.NewServeMux()}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	// Static files
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// Routes
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/dashboard", s.handleDashboard)
	s.mux.HandleFunc("/scrape", s.handleScrape)
	s.mux.HandleFunc("/scrape/custom", s.handleScrapeCustom)
	s.mux.HandleFunc("/analyze", s.handleAnalyze)
	s.mux.HandleFunc("/train", s.handleTrain)
	s.mux.HandleFunc("/predict", s.handlePredict)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.renderIndex(w, strings.TrimSpace(r.URL.Query().Get("source")), nil)
}

func (s *Server) renderIndex(w http.ResponseWriter, source string, prediction *sentiment.DualPrediction) {
	stats, err := s.db.GetStats()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var articles []database.Article
	if source != "" {
		articles, err = s.db.GetArticlesBySource(source)
	} else {
		articles, err = s.db.GetArticles(25)
	}
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, "index.html", map[string]any{
		"Stats":          stats,
		"Articles":       articles,
		"SourceFilter":   source,
		"Prediction":     prediction,
		"StudentTrained": s.analyzer.Student().IsFitted(),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	counts, err := s.db.GetSentimentCounts()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	bySource, err := s.db.SourceLabelCounts()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	runs, err := s.db.GetAnalysisRuns()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	var latest *database.AnalysisRun
	if len(runs) > 0 {
		latest = &runs[0]
	}

	s.render(w, "dashboard.html", map[string]any{
		"SentimentChart": template.HTML(report.SentimentChart(counts, report.ChartConfig{})), //nolint: gosec
		"SourceChart":    template.HTML(report.SourceChart(bySource, report.ChartConfig{})),  //nolint: gosec
		"Run":            latest,
		"Runs":           runs,
	})
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	scraper := scrape.NewScraper(s.cfg, s.db)
	result := scraper.Collect()
	log.Printf("Scrape via web UI: %d new articles", result.NewArticles)

	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleScrapeCustom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	siteURL := strings.TrimSpace(r.FormValue("url"))
	if siteURL != "" {
		scraper := scrape.NewScraper(s.cfg, s.db)
		result := scraper.CollectSite(siteURL)
		log.Printf("Custom scrape of %s: %d new articles", siteURL, result.NewArticles)
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	p := pipeline.New(s.cfg, s.db, s.analyzer)
	result := p.AnalyzeOnly(r.Context())
	for _, step := range result.Steps {
		if step.Err != nil {
			log.Printf("Analyze step %s failed: %v", step.Name, step.Err)
		}
	}

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	records, err := pipeline.TrainingRecords(s.db)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	status := s.analyzer.TrainOnCorpus(records)
	if status == "" {
		status = fmt.Sprintf("not enough labeled articles (%d)", len(records))
	}
	log.Printf("Train via web UI: %s", status)

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	text := strings.TrimSpace(r.FormValue("text"))
	if text == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	prediction := s.analyzer.PredictDual(r.Context(), text)
	s.renderIndex(w, "", &prediction)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		log.Printf("Template %s not found", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
	}
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

// Serve starts the HTTP server on the given port.
func Serve(cfg *config.Config, db *database.DB, analyzer *sentiment.Analyzer, port int) error {
	srv, err := New(cfg, db, analyzer)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Printf("Server listening on http://%s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
