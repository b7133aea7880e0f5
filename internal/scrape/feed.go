package scrape

import (
	"log"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/newspulse/newspulse/internal/textproc"
)

// FeedEntry represents a parsed feed entry.
type FeedEntry struct {
	URL           string
	Title         string
	PublishedDate string // YYYY-MM-DD or empty
	Content       string
	Source        string
}

// FeedConfig represents a single feed configuration.
type FeedConfig struct {
	URL  string
	Name string
}

// FeedParser parses RSS/Atom feeds.
type FeedParser struct {
	feeds      []FeedConfig
	maxPerFeed int
}

// NewFeedParser creates a new FeedParser.
func NewFeedParser(feeds []FeedConfig, maxPerFeed int) *FeedParser {
	if maxPerFeed <= 0 {
		maxPerFeed = 10
	}
	return &FeedParser{feeds: feeds, maxPerFeed: maxPerFeed}
}

// ParseAll parses all configured feeds and returns their entries.
func (fp *FeedParser) ParseAll() []FeedEntry {
	var all []FeedEntry

	parser := gofeed.NewParser()
	for _, fc := range fp.feeds {
		name := fc.Name
		if name == "" {
			name = extractSourceName(fc.URL)
		}

		entries, err := parseFeed(parser, fc.URL, name, fp.maxPerFeed)
		if err != nil {
			log.Printf("Failed to parse feed %s: %v", fc.URL, err)
			continue
		}
		all = append(all, entries...)
		log.Printf("Parsed %d entries from %s", len(entries), name)
	}

	return all
}

func parseFeed(parser *gofeed.Parser, feedURL, sourceName string, max int) ([]FeedEntry, error) {
	feed, err := parser.ParseURL(feedURL)
	if err != nil {
		return nil, err
	}

	var entries []FeedEntry
	for _, item := range feed.Items {
		if len(entries) >= max {
			break
		}
		if entry := parseItem(item, sourceName); entry != nil {
			entries = append(entries, *entry)
		}
	}

	return entries, nil
}

func parseItem(item *gofeed.Item, source string) *FeedEntry {
	itemURL := item.Link
	if itemURL == "" {
		itemURL = item.GUID
	}
	if itemURL == "" {
		return nil
	}

	title := strings.TrimSpace(item.Title)
	if title == "" {
		return nil
	}

	var publishedDate string
	if item.PublishedParsed != nil {
		publishedDate = item.PublishedParsed.Format("2006-01-02")
	} else if item.UpdatedParsed != nil {
		publishedDate = item.UpdatedParsed.Format("2006-01-02")
	}

	var content string
	if item.Content != "" {
		content = textproc.Clean(item.Content)
	} else if item.Description != "" {
		content = textproc.Clean(item.Description)
	}

	return &FeedEntry{
		URL:           itemURL,
		Title:         title,
		PublishedDate: publishedDate,
		Content:       content,
		Source:        source,
	}
}

func extractSourceName(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil {
		return feedURL
	}
	host := strings.ToLower(u.Hostname())

	for _, prefix := range []string{"www.", "blog.", "blogs.", "rss.", "feeds."} {
		host = strings.TrimPrefix(host, prefix)
	}

	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		name := parts[len(parts)-2]
		return strings.ToUpper(name[:1]) + name[1:]
	}
	return strings.ToUpper(host[:1]) + host[1:]
}
