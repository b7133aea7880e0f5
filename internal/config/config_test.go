package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if len(cfg.Sources.Feeds) == 0 {
		t.Error("expected feeds to be populated")
	}

	if cfg.Sentiment.Model != "distilbert-base-uncased-finetuned-sst-2-english" {
		t.Errorf("unexpected sentiment model %q", cfg.Sentiment.Model)
	}

	if cfg.Sentiment.MinTrainingSamples != 5 {
		t.Errorf("expected min_training_samples 5, got %d", cfg.Sentiment.MinTrainingSamples)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Server.Port)
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
sentiment:
  endpoint: http://inference.internal:9090
server:
  port: 9000
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.Sentiment.Endpoint != "http://inference.internal:9090" {
		t.Errorf("expected custom endpoint, got %q", cfg.Sentiment.Endpoint)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	// Defaults should still be set for unspecified fields
	if cfg.Sentiment.MaxFeatures != 5000 {
		t.Errorf("expected default max_features, got %d", cfg.Sentiment.MaxFeatures)
	}
	if cfg.Scrape.DelaySeconds != 2 {
		t.Errorf("expected default delay_seconds, got %d", cfg.Scrape.DelaySeconds)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if len(cfg.Sources.Feeds) == 0 {
		t.Error("expected feeds to be populated from file")
	}
}

func TestGetDataDir(t *testing.T) {
	cfg := &Config{}
	defaultDir := cfg.GetDataDir()
	if defaultDir == "" {
		t.Error("expected non-empty default data dir")
	}

	cfg.Output.DataDir = "/custom/path"
	if cfg.GetDataDir() != "/custom/path" {
		t.Errorf("expected /custom/path, got %q", cfg.GetDataDir())
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg == nil {
		t.Fatal("expected non-nil default config")
	}
	if cfg.Sentiment.MaxFeatures != 5000 {
		t.Errorf("unexpected max features %d", cfg.Sentiment.MaxFeatures)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("unexpected port %d", cfg.Server.Port)
	}
}
