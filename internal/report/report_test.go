package report

import (
	"strings"
	"testing"
	"time"

	"github.com/newspulse/newspulse/internal/database"
)

func TestSentimentChart(t *testing.T) {
	counts := []database.LabelCount{
		{Label: "positive", Count: 12, AvgScore: 0.81},
		{Label: "negative", Count: 7, AvgScore: 0.74},
		{Label: "neutral", Count: 3, AvgScore: 0.0},
	}

	svg := SentimentChart(counts, ChartConfig{})

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("expected a complete SVG document")
	}
	for _, want := range []string{"positive", "negative", "neutral", ">12<", "#4caf50", "#ef5350"} {
		if !strings.Contains(svg, want) {
			t.Errorf("expected chart to contain %q", want)
		}
	}
}

func TestSentimentChartEmpty(t *testing.T) {
	svg := SentimentChart(nil, DefaultChartConfig())
	if !strings.Contains(svg, "No analyzed articles yet") {
		t.Error("expected empty-state message")
	}
}

func TestSourceChart(t *testing.T) {
	bySource := map[string]map[string]int{
		"Guardian": {"positive": 4, "negative": 2},
		"Cnn":      {"neutral": 3},
	}

	svg := SourceChart(bySource, ChartConfig{})

	if !strings.HasPrefix(svg, "<svg") {
		t.Fatal("expected SVG output")
	}
	if !strings.Contains(svg, "Guardian") || !strings.Contains(svg, "Cnn") {
		t.Error("expected source names in chart")
	}
	// Guardian has more articles so it renders first.
	if strings.Index(svg, "Guardian") > strings.Index(svg, "Cnn") {
		t.Error("expected sources ordered by total count")
	}
}

func TestSourceChartEscapesMarkup(t *testing.T) {
	bySource := map[string]map[string]int{
		"<script>": {"positive": 1},
	}
	svg := SourceChart(bySource, ChartConfig{})
	if strings.Contains(svg, "<script>") {
		t.Error("expected source names XML-escaped")
	}
}

func TestRunSummary(t *testing.T) {
	in := RunInput{
		Stats: &database.Stats{
			TotalArticles:    20,
			AnalyzedArticles: 15,
			ByLabel: []database.LabelCount{
				{Label: "positive", Count: 9, AvgScore: 0.8},
				{Label: "negative", Count: 6, AvgScore: 0.7},
			},
			BySource: []database.SourceCount{
				{Source: "Guardian", Count: 12, AvgScore: 0.75},
			},
		},
		AnalyzedCount: 5,
		TrainedCount:  15,
		TrainStatus:   "Success! Model trained on 15 articles.",
		RanAt:         time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
	}

	md := RunSummary(in)

	for _, want := range []string{
		"2026-08-30 09:00",
		"Analyzed **5** articles",
		"**15** of **20**",
		"| positive | 9 | 0.80 |",
		"**Guardian**: 12 articles",
		"Success! Model trained on 15 articles.",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("expected summary to contain %q\ngot:\n%s", want, md)
		}
	}
}

func TestRunSummaryNoTraining(t *testing.T) {
	md := RunSummary(RunInput{AnalyzedCount: 2, RanAt: time.Now()})
	if !strings.Contains(md, "Not enough labeled articles") {
		t.Error("expected untrained message for empty status")
	}
}
