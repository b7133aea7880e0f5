// Package textproc cleans and normalizes article text ahead of sentiment
// analysis and statistics.
package textproc

import (
	"regexp"
	"sort"
	"strings"

	"github.com/bbalet/stopwords"
)

const minArticleWords = 20

var (
	urlRE   = regexp.MustCompile(`https?://\S+|www\.\S+`)
	emailRE = regexp.MustCompile(`\S+@\S+`)
	wordRE  = regexp.MustCompile(`[^a-zA-Z\s]`)
)

// Clean strips markup, URLs and email addresses and collapses whitespace.
// Casing and punctuation are kept: the transformer model uses them to read
// intensity ("BAD!" vs "bad").
func Clean(text string) string {
	if text == "" {
		return ""
	}
	text = stripTags(text)
	text = urlRE.ReplaceAllString(text, "")
	text = emailRE.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// NormalizeForStats produces the heavily stripped token stream used for
// keyword extraction and word statistics: lowercase, letters only, stopwords
// removed.
func NormalizeForStats(text string) string {
	text = strings.ToLower(text)
	text = wordRE.ReplaceAllString(text, "")
	text = stopwords.CleanString(text, "en", false)
	return strings.Join(strings.Fields(text), " ")
}

// Keywords returns the topN most frequent normalized words longer than three
// characters.
func Keywords(text string, topN int) []string {
	words := strings.Fields(NormalizeForStats(text))

	freq := make(map[string]int)
	for _, w := range words {
		if len(w) > 3 {
			freq[w]++
		}
	}

	type wc struct {
		word  string
		count int
	}
	sorted := make([]wc, 0, len(freq))
	for w, c := range freq {
		sorted = append(sorted, wc{w, c})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].word < sorted[j].word
	})

	if topN > len(sorted) {
		topN = len(sorted)
	}
	keywords := make([]string, topN)
	for i := 0; i < topN; i++ {
		keywords[i] = sorted[i].word
	}
	return keywords
}

// Statistics holds basic text measurements for an article.
type Statistics struct {
	WordCount         int
	SentenceCount     int
	AvgWordLength     float64
	AvgSentenceLength float64
}

// BasicStatistics computes word and sentence counts for raw article text.
func BasicStatistics(text string) Statistics {
	words := strings.Fields(text)
	sentences := countSentences(text)

	stats := Statistics{
		WordCount:     len(words),
		SentenceCount: sentences,
	}
	if len(words) > 0 {
		total := 0
		for _, w := range words {
			total += len(w)
		}
		stats.AvgWordLength = float64(total) / float64(len(words))
	}
	if sentences > 0 {
		stats.AvgSentenceLength = float64(len(words)) / float64(sentences)
	}
	return stats
}

// ValidArticle reports whether content is long enough to be worth storing.
func ValidArticle(content string) bool {
	return len(strings.Fields(content)) >= minArticleWords
}

func countSentences(text string) int {
	count := 0
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			count++
		}
	}
	return count
}

func stripTags(text string) string {
	var result strings.Builder
	inTag := false
	for _, r := range text {
		if r == '<' {
			inTag = true
			result.WriteRune(' ')
			continue
		}
		if r == '>' {
			inTag = false
			continue
		}
		if !inTag {
			result.WriteRune(r)
		}
	}

	s := result.String()
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")
	return s
}
