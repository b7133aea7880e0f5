package scrape

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// PageArticle is an article extracted by the generic site scraper.
type PageArticle struct {
	URL     string
	Title   string
	Content string
	Source  string
}

// SiteScraper scrapes articles from arbitrary news pages using link
// heuristics: it collects same-domain links from a start page, then extracts
// the headline and long paragraphs from each.
type SiteScraper struct {
	client    *http.Client
	userAgent string
	delay     time.Duration
}

// NewSiteScraper creates a new generic site scraper.
func NewSiteScraper(timeout, delay time.Duration, userAgent string) *SiteScraper {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &SiteScraper{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		delay:     delay,
	}
}

// Scrape discovers and extracts up to maxArticles articles reachable from
// startURL. The page's domain is used as the source name.
func (s *SiteScraper) Scrape(startURL string, maxArticles int) ([]PageArticle, error) {
	if maxArticles <= 0 {
		maxArticles = 5
	}

	base, err := url.Parse(startURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid start URL: %s", startURL)
	}
	domain := base.Host

	doc, err := s.fetchDocument(startURL)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", startURL, err)
	}

	links := discoverLinks(doc, base, domain)
	if len(links) > maxArticles {
		links = links[:maxArticles]
	}
	log.Printf("Found %d candidate articles on %s", len(links), domain)

	var articles []PageArticle
	for _, link := range links {
		article, err := s.scrapeArticle(link, domain)
		if err != nil {
			log.Printf("Failed to parse %s: %v", link, err)
			continue
		}
		if article != nil {
			articles = append(articles, *article)
		}
		if s.delay > 0 {
			time.Sleep(s.delay)
		}
	}

	return articles, nil
}

// discoverLinks collects same-domain links long enough to plausibly be
// article pages, preserving document order.
func discoverLinks(doc *goquery.Document, base *url.URL, domain string) []string {
	seen := make(map[string]struct{})
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Host != domain || abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}

		link := abs.String()
		if len(link) < 25 {
			return
		}
		if _, ok := seen[link]; ok {
			return
		}
		seen[link] = struct{}{}
		links = append(links, link)
	})

	return links
}

func (s *SiteScraper) scrapeArticle(link, domain string) (*PageArticle, error) {
	doc, err := s.fetchDocument(link)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if len(title) < 10 {
		return nil, nil
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		// Short paragraphs are usually navigation, captions or bylines
		if len(text) > 50 {
			paragraphs = append(paragraphs, text)
		}
	})

	content := strings.Join(paragraphs, " ")
	if len(content) < 200 {
		return nil, nil
	}

	return &PageArticle{
		URL:     link,
		Title:   title,
		Content: content,
		Source:  domain,
	}, nil
}

func (s *SiteScraper) fetchDocument(pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequest("GET", pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}
