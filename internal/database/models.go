package database

// Article represents a scraped news article.
type Article struct {
	ID               int64
	URL              string
	Title            string
	Source           *string
	PublishedDate    *string
	Content          *string
	ProcessedContent *string
	WordCount        int
	SentimentLabel   *string
	SentimentScore   *float64
	ModelUsed        *string
	AnalyzedAt       *string
	ScrapedAt        *string
}

// SentimentUpdate holds analysis results to write back to an article.
type SentimentUpdate struct {
	Label     string
	Score     float64
	ModelUsed string
}

// LabelCount is an aggregate row for one sentiment label.
type LabelCount struct {
	Label    string
	Count    int
	AvgScore float64
}

// SourceCount is an aggregate row for one news source.
type SourceCount struct {
	Source   string
	Count    int
	AvgScore float64
}

// AnalysisRun records one analyze+retrain batch.
type AnalysisRun struct {
	ID              int64
	RanAt           *string
	AnalyzedCount   int
	TrainedCount    int
	TrainStatus     *string
	SummaryMarkdown *string
}

// Stats contains aggregate database statistics.
type Stats struct {
	TotalArticles    int
	AnalyzedArticles int
	ByLabel          []LabelCount
	BySource         []SourceCount
	AnalysisRuns     int
}
