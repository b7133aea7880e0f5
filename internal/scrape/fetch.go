package scrape

import (
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/newspulse/newspulse/internal/database"
)

// FetchResult holds the results of a content fetch run.
type FetchResult struct {
	Fetched int
	Failed  int
}

// ContentFetcher fetches full article text via HTTP + readability extraction
// for stored articles whose feed entry carried no usable body.
type ContentFetcher struct {
	db        *database.DB
	client    *http.Client
	userAgent string
	delay     time.Duration
}

// NewContentFetcher creates a new content fetcher.
func NewContentFetcher(db *database.DB, timeout, delay time.Duration, userAgent string) *ContentFetcher {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &ContentFetcher{
		db:        db,
		userAgent: userAgent,
		delay:     delay,
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// FetchMissingContent fetches content for unanalyzed articles whose stored
// content is too short to analyze. A fixed delay runs between requests, and
// a domain that returns an HTTP error is skipped for the rest of the run.
func (f *ContentFetcher) FetchMissingContent() *FetchResult {
	articles, err := f.db.GetUnanalyzedArticles()
	if err != nil {
		log.Printf("Error getting articles for fetch: %v", err)
		return &FetchResult{}
	}

	result := &FetchResult{}
	failedDomains := make(map[string]struct{})

	for _, article := range articles {
		if article.Content != nil && len(strings.Fields(*article.Content)) >= 50 {
			continue
		}

		u, _ := url.Parse(article.URL)
		domain := ""
		if u != nil {
			domain = strings.ToLower(u.Host)
		}
		if _, failed := failedDomains[domain]; failed {
			result.Failed++
			continue
		}

		content, httpErr := f.FetchArticleContent(article.URL)
		if httpErr != nil {
			result.Failed++
			if domain != "" {
				failedDomains[domain] = struct{}{}
			}
			log.Printf("HTTP error for %s, skipping remaining from %s", article.URL, domain)
			continue
		}

		if content != "" {
			wordCount := len(strings.Fields(content))
			f.db.UpdateArticleContent(article.ID, content, wordCount)
			result.Fetched++
			log.Printf("Fetched content for: %s", article.Title)
		} else {
			result.Failed++
			log.Printf("No extractable content from: %s", article.URL)
		}

		if f.delay > 0 {
			time.Sleep(f.delay)
		}
	}

	log.Printf("Content fetch complete: %d fetched, %d failed", result.Fetched, result.Failed)
	return result
}

// FetchArticleContent downloads a page and extracts the readable article text.
// Connection and parse failures return ("", nil); HTTP-level errors return an
// error so callers can short-circuit a dead domain.
func (f *ContentFetcher) FetchArticleContent(articleURL string) (string, error) {
	req, err := http.NewRequest("GET", articleURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", nil // connection error, not HTTP error
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &httpError{code: resp.StatusCode}
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil
	}

	parsedURL, _ := url.Parse(articleURL)
	article, err := readability.FromReader(strings.NewReader(string(bodyBytes)), parsedURL)
	if err != nil {
		return "", nil
	}

	text := strings.TrimSpace(article.TextContent)
	if len(text) > 100 {
		return text, nil
	}
	return "", nil
}

type httpError struct {
	code int
}

func (e *httpError) Error() string {
	return http.StatusText(e.code)
}
