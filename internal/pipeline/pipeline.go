// Package pipeline orchestrates the scrape-to-report cycle: collect articles,
// fetch missing content, clean text, run sentiment analysis, and retrain the
// local model on the accumulated labels.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/newspulse/newspulse/internal/config"
	"github.com/newspulse/newspulse/internal/database"
	"github.com/newspulse/newspulse/internal/report"
	"github.com/newspulse/newspulse/internal/scrape"
	"github.com/newspulse/newspulse/internal/sentiment"
	"github.com/newspulse/newspulse/internal/textproc"
)

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the results of a full pipeline run.
type Result struct {
	Steps []StepResult
}

// Pipeline runs the 5-step collection and analysis cycle.
type Pipeline struct {
	cfg      *config.Config
	db       *database.DB
	analyzer *sentiment.Analyzer
}

// New creates a new pipeline. The analyzer is injected so callers control
// which sentiment backends are wired in.
func New(cfg *config.Config, db *database.DB, analyzer *sentiment.Analyzer) *Pipeline {
	return &Pipeline{cfg: cfg, db: db, analyzer: analyzer}
}

// Run executes the full pipeline.
func (p *Pipeline) Run(ctx context.Context) *Result {
	r := &Result{}

	step := p.runScrape()
	r.Steps = append(r.Steps, step)

	step = p.runFetch()
	r.Steps = append(r.Steps, step)

	step = p.runClean()
	r.Steps = append(r.Steps, step)

	analyzed := 0
	step = p.runAnalyze(ctx, &analyzed)
	r.Steps = append(r.Steps, step)

	step = p.runRetrain(analyzed)
	r.Steps = append(r.Steps, step)

	return r
}

// AnalyzeOnly runs just the clean, analyze and retrain steps over articles
// already in the database.
func (p *Pipeline) AnalyzeOnly(ctx context.Context) *Result {
	r := &Result{}

	step := p.runClean()
	r.Steps = append(r.Steps, step)

	analyzed := 0
	step = p.runAnalyze(ctx, &analyzed)
	r.Steps = append(r.Steps, step)

	step = p.runRetrain(analyzed)
	r.Steps = append(r.Steps, step)

	return r
}

func (p *Pipeline) runScrape() StepResult {
	log.Println("Step 1/5: Scraping sources...")
	scraper := scrape.NewScraper(p.cfg, p.db)
	result := scraper.Collect()
	return StepResult{
		Name:    "Scrape",
		Summary: fmt.Sprintf("Found %d new articles (%d total, %d duplicates)", result.NewArticles, result.TotalFound, result.Duplicates),
	}
}

func (p *Pipeline) runFetch() StepResult {
	log.Println("Step 2/5: Fetching article content...")
	fetcher := scrape.NewContentFetcher(
		p.db,
		time.Duration(p.cfg.Scrape.TimeoutSeconds)*time.Second,
		time.Duration(p.cfg.Scrape.DelaySeconds)*time.Second,
		p.cfg.Scrape.UserAgent,
	)
	result := fetcher.FetchMissingContent()
	return StepResult{
		Name:    "Fetch",
		Summary: fmt.Sprintf("Fetched %d articles, %d failed", result.Fetched, result.Failed),
	}
}

func (p *Pipeline) runClean() StepResult {
	log.Println("Step 3/5: Cleaning article text...")
	articles, err := p.db.GetUnanalyzedArticles()
	if err != nil {
		return StepResult{Name: "Clean", Err: err}
	}

	cleaned := 0
	for _, a := range articles {
		if a.Content == nil || *a.Content == "" {
			continue
		}
		if a.ProcessedContent != nil && *a.ProcessedContent != "" {
			continue
		}
		processed := textproc.NormalizeForStats(textproc.Clean(*a.Content))
		stats := textproc.BasicStatistics(*a.Content)
		if err := p.db.UpdateProcessedContent(a.ID, processed, stats.WordCount); err != nil {
			log.Printf("Failed to store processed content for article %d: %v", a.ID, err)
			continue
		}
		cleaned++
	}

	return StepResult{
		Name:    "Clean",
		Summary: fmt.Sprintf("Cleaned %d articles", cleaned),
	}
}

func (p *Pipeline) runAnalyze(ctx context.Context, analyzed *int) StepResult {
	log.Println("Step 4/5: Analyzing sentiment...")
	articles, err := p.db.GetUnanalyzedArticles()
	if err != nil {
		return StepResult{Name: "Analyze", Err: err}
	}

	for _, a := range articles {
		if a.Content == nil || !textproc.ValidArticle(*a.Content) {
			continue
		}
		pred := p.analyzer.Analyze(ctx, *a.Content)
		err := p.db.UpdateSentiment(a.ID, database.SentimentUpdate{
			Label:     string(pred.Label),
			Score:     pred.Confidence,
			ModelUsed: string(pred.Model),
		})
		if err != nil {
			log.Printf("Failed to store sentiment for article %d: %v", a.ID, err)
			continue
		}
		*analyzed++
	}

	return StepResult{
		Name:    "Analyze",
		Summary: fmt.Sprintf("Analyzed %d articles", *analyzed),
	}
}

func (p *Pipeline) runRetrain(analyzed int) StepResult {
	log.Println("Step 5/5: Retraining local model...")

	records, err := p.trainingRecords()
	if err != nil {
		return StepResult{Name: "Retrain", Err: err}
	}

	status := p.analyzer.TrainOnCorpus(records)

	stats, err := p.db.GetStats()
	if err != nil {
		log.Printf("Failed to load stats for run summary: %v", err)
	}
	summary := report.RunSummary(report.RunInput{
		Stats:         stats,
		AnalyzedCount: analyzed,
		TrainedCount:  len(records),
		TrainStatus:   status,
		RanAt:         time.Now(),
	})
	if _, err := p.db.InsertAnalysisRun(analyzed, len(records), status, summary); err != nil {
		log.Printf("Failed to record analysis run: %v", err)
	}

	stepSummary := status
	if stepSummary == "" {
		stepSummary = fmt.Sprintf("Skipped: only %d labeled articles available", len(records))
	}
	return StepResult{Name: "Retrain", Summary: stepSummary}
}

// trainingRecords loads the labeled articles usable as training data.
func (p *Pipeline) trainingRecords() ([]sentiment.Record, error) {
	articles, err := p.db.GetLabeledArticles()
	if err != nil {
		return nil, err
	}

	records := make([]sentiment.Record, 0, len(articles))
	for _, a := range articles {
		if a.ProcessedContent == nil || a.SentimentLabel == nil {
			continue
		}
		records = append(records, sentiment.Record{
			URL:   a.URL,
			Text:  *a.ProcessedContent,
			Label: sentiment.Label(*a.SentimentLabel),
		})
	}
	return records, nil
}

// TrainingRecords exposes the labeled-article corpus for callers that warm
// start the model outside a pipeline run.
func TrainingRecords(db *database.DB) ([]sentiment.Record, error) {
	p := &Pipeline{db: db}
	return p.trainingRecords()
}
