package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Sources   Sources   `yaml:"sources"`
	Scrape    Scrape    `yaml:"scrape"`
	Sentiment Sentiment `yaml:"sentiment"`
	Output    Output    `yaml:"output"`
	Server    Server    `yaml:"server"`
	Logging   Logging   `yaml:"logging"`
}

type Sources struct {
	Feeds []Feed   `yaml:"feeds"`
	Sites []string `yaml:"sites"`
}

type Feed struct {
	URL  string `yaml:"url"`
	Name string `yaml:"name"`
}

type Scrape struct {
	MaxPerSource   int    `yaml:"max_per_source"`
	DelaySeconds   int    `yaml:"delay_seconds"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent"`
}

type Sentiment struct {
	Endpoint           string `yaml:"endpoint"`
	Model              string `yaml:"model"`
	APIKeyEnv          string `yaml:"api_key_env"`
	MinTrainingSamples int    `yaml:"min_training_samples"`
	MaxFeatures        int    `yaml:"max_features"`
	TruncateTokens     int    `yaml:"truncate_tokens"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for newspulse.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "newspulse")
}

// DataDir returns the XDG data directory for newspulse.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "newspulse")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/newspulse/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'newspulse init' to create a default config",
		xdgConfig,
	)
}

// Default returns the configuration parsed from the embedded default.yaml.
func Default() *Config {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		// The embedded default is static and covered by tests.
		panic(fmt.Sprintf("invalid embedded default config: %v", err))
	}
	return cfg
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Scrape: Scrape{
			MaxPerSource:   10,
			DelaySeconds:   2,
			TimeoutSeconds: 15,
			UserAgent:      "newspulse/1.0 (news sentiment scanner)",
		},
		Sentiment: Sentiment{
			Endpoint:           "http://localhost:8080",
			Model:              "distilbert-base-uncased-finetuned-sst-2-english",
			APIKeyEnv:          "HF_API_TOKEN",
			MinTrainingSamples: 5,
			MaxFeatures:        5000,
			TruncateTokens:     512,
		},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
