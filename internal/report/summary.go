package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/newspulse/newspulse/internal/database"
)

// RunInput holds the results of one analyze+retrain batch plus the database
// state to summarize.
type RunInput struct {
	Stats         *database.Stats
	AnalyzedCount int
	TrainedCount  int
	TrainStatus   string
	RanAt         time.Time
}

// RunSummary renders a markdown summary of an analysis run, suitable for
// storing alongside the run record and rendering on the dashboard.
func RunSummary(in RunInput) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## Analysis Run %s\n\n", in.RanAt.Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("Analyzed **%d** articles this run.\n\n", in.AnalyzedCount))

	if in.Stats != nil {
		sb.WriteString(fmt.Sprintf("**%d** of **%d** stored articles now carry a sentiment label.\n\n",
			in.Stats.AnalyzedArticles, in.Stats.TotalArticles))

		if len(in.Stats.ByLabel) > 0 {
			sb.WriteString("### Sentiment Distribution\n\n")
			sb.WriteString("| Label | Articles | Avg Score |\n")
			sb.WriteString("|---|---|---|\n")
			for _, c := range in.Stats.ByLabel {
				sb.WriteString(fmt.Sprintf("| %s | %d | %.2f |\n", c.Label, c.Count, c.AvgScore))
			}
			sb.WriteString("\n")
		}

		if len(in.Stats.BySource) > 0 {
			sb.WriteString("### Top Sources\n\n")
			for i, s := range in.Stats.BySource {
				if i >= 5 {
					break
				}
				sb.WriteString(fmt.Sprintf("- **%s**: %d articles (avg score %.2f)\n",
					s.Source, s.Count, s.AvgScore))
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("### Model Training\n\n")
	switch {
	case in.TrainStatus == "":
		sb.WriteString("Not enough labeled articles yet to retrain the local model.\n")
	case strings.HasPrefix(in.TrainStatus, "Error"):
		sb.WriteString(fmt.Sprintf("Retraining failed: %s\n", strings.TrimPrefix(in.TrainStatus, "Error: ")))
	default:
		sb.WriteString(fmt.Sprintf("%s\n", in.TrainStatus))
	}

	return sb.String()
}
