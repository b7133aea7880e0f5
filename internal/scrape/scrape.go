// Package scrape collects news articles from RSS feeds and plain news sites.
package scrape

import (
	"log"
	"strings"
	"time"

	"github.com/newspulse/newspulse/internal/config"
	"github.com/newspulse/newspulse/internal/database"
)

// Result holds the results of a collection run.
type Result struct {
	TotalFound  int
	NewArticles int
	Duplicates  int
	Sources     map[string]int
}

// Scraper orchestrates article collection from RSS feeds and configured
// news sites.
type Scraper struct {
	db          *database.DB
	feedParser  *FeedParser
	siteScraper *SiteScraper
	sites       []string
	maxPerSite  int
}

// NewScraper creates a new article scraper from config.
func NewScraper(cfg *config.Config, db *database.DB) *Scraper {
	timeout := time.Duration(cfg.Scrape.TimeoutSeconds) * time.Second
	delay := time.Duration(cfg.Scrape.DelaySeconds) * time.Second

	s := &Scraper{
		db:          db,
		siteScraper: NewSiteScraper(timeout, delay, cfg.Scrape.UserAgent),
		sites:       cfg.Sources.Sites,
		maxPerSite:  cfg.Scrape.MaxPerSource,
	}

	if len(cfg.Sources.Feeds) > 0 {
		feeds := make([]FeedConfig, len(cfg.Sources.Feeds))
		for i, f := range cfg.Sources.Feeds {
			feeds[i] = FeedConfig{URL: f.URL, Name: f.Name}
		}
		s.feedParser = NewFeedParser(feeds, cfg.Scrape.MaxPerSource)
	}

	return s
}

// Collect scrapes all configured sources and stores new articles.
func (s *Scraper) Collect() *Result {
	r := &Result{Sources: make(map[string]int)}

	if s.feedParser != nil {
		log.Println("Collecting from RSS feeds...")
		for _, entry := range s.feedParser.ParseAll() {
			r.TotalFound++
			s.store(r, entry.URL, entry.Title, entry.Source, entry.PublishedDate, entry.Content)
		}
	}

	for _, site := range s.sites {
		log.Printf("Scanning site %s...", site)
		articles, err := s.siteScraper.Scrape(site, s.maxPerSite)
		if err != nil {
			log.Printf("Error scanning %s: %v", site, err)
			continue
		}
		for _, a := range articles {
			r.TotalFound++
			s.store(r, a.URL, a.Title, a.Source, "", a.Content)
		}
	}

	log.Printf("Collection complete: %d new, %d duplicates", r.NewArticles, r.Duplicates)
	return r
}

// CollectSite scrapes a single user-supplied URL with the generic scraper.
func (s *Scraper) CollectSite(startURL string) *Result {
	r := &Result{Sources: make(map[string]int)}

	if !strings.HasPrefix(startURL, "http") {
		startURL = "https://" + startURL
	}

	articles, err := s.siteScraper.Scrape(startURL, s.maxPerSite)
	if err != nil {
		log.Printf("Error scanning %s: %v", startURL, err)
		return r
	}

	for _, a := range articles {
		r.TotalFound++
		s.store(r, a.URL, a.Title, a.Source, "", a.Content)
	}
	return r
}

func (s *Scraper) store(r *Result, articleURL, title, source, publishedDate, content string) {
	var sourcePtr, datePtr, contentPtr *string
	if source != "" {
		sourcePtr = &source
	}
	if publishedDate != "" {
		datePtr = &publishedDate
	}
	if content != "" {
		contentPtr = &content
	}

	wordCount := len(strings.Fields(content))
	id, _ := s.db.InsertArticle(articleURL, title, sourcePtr, datePtr, contentPtr, wordCount)
	if id > 0 {
		r.NewArticles++
		r.Sources[source]++
	} else {
		r.Duplicates++
	}
}
