package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/newspulse/newspulse/internal/config"
	"github.com/newspulse/newspulse/internal/database"
	"github.com/newspulse/newspulse/internal/pipeline"
	"github.com/newspulse/newspulse/internal/scrape"
	"github.com/newspulse/newspulse/internal/sentiment"
	"github.com/newspulse/newspulse/internal/server"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "newspulse",
	Short:   "News sentiment scanner",
	Long:    "NewsPulse scrapes news articles, scores their sentiment with a dual-model analyzer, and serves the results on a local dashboard.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("newspulse", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/newspulse/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure feeds, sites, and the sentiment endpoint.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Println("Articles:")
		fmt.Printf("  Total scraped: %d\n", stats.TotalArticles)
		fmt.Printf("  Analyzed: %d\n", stats.AnalyzedArticles)
		if len(stats.ByLabel) > 0 {
			fmt.Println("\nSentiment:")
			for _, c := range stats.ByLabel {
				fmt.Printf("  %s: %d (avg score %.2f)\n", c.Label, c.Count, c.AvgScore)
			}
		}
		if len(stats.BySource) > 0 {
			fmt.Println("\nSources:")
			for _, s := range stats.BySource {
				fmt.Printf("  %s: %d\n", s.Source, s.Count)
			}
		}
		fmt.Printf("\nAnalysis runs: %d\n", stats.AnalysisRuns)
		if run, err := db.GetLatestAnalysisRun(); err == nil && run != nil {
			fmt.Printf("Last run: %s (%d analyzed, %d trained on)\n",
				derefOr(run.RanAt, "unknown"), run.AnalyzedCount, run.TrainedCount)
		}
		return nil
	},
}

// --- scrape command ---

var scrapeSite string

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape articles from configured feeds and sites",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		scraper := scrape.NewScraper(cfg, db)

		var result *scrape.Result
		if scrapeSite != "" {
			fmt.Printf("Scraping %s...\n", scrapeSite)
			result = scraper.CollectSite(scrapeSite)
		} else {
			fmt.Println("Scraping configured sources...")
			result = scraper.Collect()
		}

		fmt.Println("\nScrape complete:")
		fmt.Printf("  Total found: %d\n", result.TotalFound)
		fmt.Printf("  New articles: %d\n", result.NewArticles)
		fmt.Printf("  Duplicates skipped: %d\n", result.Duplicates)

		if len(result.Sources) > 0 {
			fmt.Println("\nArticles by source:")
			type kv struct {
				key string
				val int
			}
			var sorted []kv
			for k, v := range result.Sources {
				sorted = append(sorted, kv{k, v})
			}
			sort.Slice(sorted, func(i, j int) bool { return sorted[i].val > sorted[j].val })
			for _, s := range sorted {
				fmt.Printf("  %s: %d\n", s.key, s.val)
			}
		}
		return nil
	},
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeSite, "site", "", "Scrape a single site URL instead of configured sources")
}

// --- analyze command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze sentiment of scraped articles and retrain the local model",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		analyzer := newAnalyzer()
		warmStart(db, analyzer)

		pipe := pipeline.New(cfg, db, analyzer)
		result := pipe.AnalyzeOnly(context.Background())
		printSteps(result.Steps)
		return nil
	},
}

// --- train command ---

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Retrain the local model on previously labeled articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		records, err := pipeline.TrainingRecords(db)
		if err != nil {
			return err
		}

		analyzer := newAnalyzer()
		status := analyzer.TrainOnCorpus(records)
		if status == "" {
			fmt.Printf("Not enough labeled articles to train (%d available).\n", len(records))
			return nil
		}
		fmt.Println(status)
		return nil
	},
}

// --- predict command ---

var predictCmd = &cobra.Command{
	Use:   "predict [text]",
	Short: "Predict the sentiment of a piece of text with both models",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		analyzer := newAnalyzer()
		warmStart(db, analyzer)

		text := strings.Join(args, " ")
		dual := analyzer.PredictDual(context.Background(), text)

		fmt.Printf("%-10s %s (%.2f)\n", dual.Teacher.Model+":", dual.Teacher.Label, dual.Teacher.Confidence)
		fmt.Printf("%-10s %s (%.2f)\n", dual.Student.Model+":", dual.Student.Label, dual.Student.Confidence)
		return nil
	},
}

// --- run command ---

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: scrape -> fetch -> clean -> analyze -> retrain",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		analyzer := newAnalyzer()
		warmStart(db, analyzer)

		pipe := pipeline.New(cfg, db, analyzer)
		result := pipe.Run(context.Background())
		printSteps(result.Steps)

		fmt.Println("\nPipeline complete! Run 'newspulse serve' to view the dashboard.")
		return nil
	},
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		analyzer := newAnalyzer()
		warmStart(db, analyzer)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(cfg, db, analyzer, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default from config)")
}

// newAnalyzer wires the full analyzer from config: remote teacher, local
// student, and the lexicon fallback.
func newAnalyzer() *sentiment.Analyzer {
	s := cfg.Sentiment
	teacher := sentiment.NewTeacher(s.Endpoint, s.Model, s.APIKeyEnv, s.TruncateTokens)
	student := sentiment.NewStudent(s.MinTrainingSamples, s.MaxFeatures)
	return sentiment.NewAnalyzer(teacher, student, sentiment.NewLexicon())
}

// warmStart trains the student on labels already in the database, so a fresh
// process does not start from an unfitted model.
func warmStart(db *database.DB, analyzer *sentiment.Analyzer) {
	records, err := pipeline.TrainingRecords(db)
	if err != nil {
		log.Printf("Failed to load training records for warm start: %v", err)
		return
	}
	analyzer.WarmStart(records)
}

func printSteps(steps []pipeline.StepResult) {
	for i, step := range steps {
		fmt.Printf("\nStep %d/%d: %s\n", i+1, len(steps), step.Name)
		if step.Err != nil {
			fmt.Printf("  Error: %v\n", step.Err)
		} else {
			fmt.Printf("  %s\n", step.Summary)
		}
	}
}

func derefOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "newspulse.db")
	return database.Open(dbPath)
}
