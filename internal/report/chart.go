// Package report renders SVG charts and markdown summaries from stored
// sentiment results.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/newspulse/newspulse/internal/database"
)

// ChartConfig holds rendering parameters for SVG charts.
type ChartConfig struct {
	Width      int
	Height     int
	MarginTop  int
	MarginSide int
	BgColor    string
	TextColor  string
	FontSize   int
	Title      string
}

// DefaultChartConfig returns the defaults used by the dashboard.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:      640,
		Height:     320,
		MarginTop:  44,
		MarginSide: 60,
		BgColor:    "#ffffff",
		TextColor:  "#333333",
		FontSize:   12,
	}
}

var labelColors = map[string]string{
	"positive": "#4caf50",
	"negative": "#ef5350",
	"neutral":  "#9e9e9e",
}

func labelColor(label string) string {
	if c, ok := labelColors[label]; ok {
		return c
	}
	return "#2196f3"
}

// SentimentChart renders the overall sentiment distribution as a vertical
// bar chart, one bar per label with its count and mean score.
func SentimentChart(counts []database.LabelCount, cfg ChartConfig) string {
	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if cfg.Title == "" {
		cfg.Title = "Sentiment Distribution"
	}
	if len(counts) == 0 {
		return emptySVG(cfg, "No analyzed articles yet")
	}

	maxCount := 0
	for _, c := range counts {
		if c.Count > maxCount {
			maxCount = c.Count
		}
	}
	if maxCount == 0 {
		return emptySVG(cfg, "No analyzed articles yet")
	}

	plotW := cfg.Width - 2*cfg.MarginSide
	plotH := cfg.Height - cfg.MarginTop - 50
	barW := plotW / len(counts)
	bodyW := float64(barW) * 0.6

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="24" font-size="15" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	for i, c := range counts {
		cx := float64(cfg.MarginSide) + float64(i)*float64(barW) + float64(barW)/2
		ratio := float64(c.Count) / float64(maxCount)
		bh := ratio * float64(plotH)
		by := float64(cfg.MarginTop+plotH) - bh

		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" rx="3"/>`,
			cx-bodyW/2, by, bodyW, bh, labelColor(c.Label)))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%d" fill="%s" text-anchor="middle">%d</text>`,
			cx, by-6, cfg.FontSize, cfg.TextColor, c.Count))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
			cx, cfg.MarginTop+plotH+18, cfg.FontSize, cfg.TextColor, escapeXML(c.Label)))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="#888" text-anchor="middle">avg %.2f</text>`,
			cx, cfg.MarginTop+plotH+34, cfg.FontSize-2, c.AvgScore))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SourceChart renders per-source sentiment as horizontal stacked bars, one
// row per source, segments colored by label.
func SourceChart(bySource map[string]map[string]int, cfg ChartConfig) string {
	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if cfg.Title == "" {
		cfg.Title = "Sentiment by Source"
	}
	if len(bySource) == 0 {
		return emptySVG(cfg, "No analyzed articles yet")
	}

	type sourceRow struct {
		name  string
		total int
	}
	rows := make([]sourceRow, 0, len(bySource))
	maxTotal := 0
	for name, labels := range bySource {
		total := 0
		for _, n := range labels {
			total += n
		}
		rows = append(rows, sourceRow{name: name, total: total})
		if total > maxTotal {
			maxTotal = total
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].total != rows[j].total {
			return rows[i].total > rows[j].total
		}
		return rows[i].name < rows[j].name
	})
	if maxTotal == 0 {
		return emptySVG(cfg, "No analyzed articles yet")
	}

	labelOrder := []string{"positive", "neutral", "negative"}
	marginLeft := 140
	plotW := cfg.Width - marginLeft - cfg.MarginSide
	plotH := cfg.Height - cfg.MarginTop - 30
	rowH := float64(plotH) / float64(len(rows))
	barH := rowH * 0.6
	if barH > 26 {
		barH = 26
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="24" font-size="15" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	for i, row := range rows {
		by := float64(cfg.MarginTop) + float64(i)*rowH + (rowH-barH)/2
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" font-size="%d" fill="%s" text-anchor="end">%s</text>`,
			marginLeft-8, by+barH/2+4, cfg.FontSize, cfg.TextColor, escapeXML(truncateLabel(row.name, 18))))

		x := float64(marginLeft)
		for _, label := range labelOrder {
			n := bySource[row.name][label]
			if n == 0 {
				continue
			}
			w := float64(n) / float64(maxTotal) * float64(plotW)
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`,
				x, by, w, barH, labelColor(label)))
			x += w
		}
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%d" fill="#888">%d</text>`,
			x+6, by+barH/2+4, cfg.FontSize-1, row.total))
	}

	// Legend
	lx := marginLeft
	ly := cfg.Height - 8
	for _, label := range labelOrder {
		sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="10" height="10" fill="%s"/>`,
			lx, ly-9, labelColor(label)))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s">%s</text>`,
			lx+14, ly, cfg.FontSize-1, cfg.TextColor, label))
		lx += 14 + 8*len(label) + 24
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func truncateLabel(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func svgHeader(cfg ChartConfig) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)
}

func emptySVG(cfg ChartConfig, msg string) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="%d" height="%d" fill="#f5f5f5"/><text x="%d" y="%d" text-anchor="middle" fill="#999" font-size="14" font-family="sans-serif">%s</text></svg>`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height, cfg.Width/2, cfg.Height/2, escapeXML(msg))
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
