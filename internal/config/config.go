package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Config holds every runtime setting. Values load in three layers, each
// overriding the last: defaults, YAML file, environment variables.
type Config struct {
	DataDir            string `yaml:"data_dir"`
	DatabasePath       string `yaml:"database_path"`
	MirrorURL          string `yaml:"mirror_url"`
	LiveAPIURL         string `yaml:"live_api_url"`
	LiveTimeoutSeconds int    `yaml:"live_timeout_seconds"`
	LiveWorkers        int    `yaml:"live_workers"`
	IngestWorkers      int    `yaml:"ingest_workers"`
	LogLevel           string `yaml:"log_level"`
}

// Default returns the configuration used when no file is present. The
// data directory lives under the user's home.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dataDir := filepath.Join(home, ".jlcsearch")

	return &Config{
		DataDir:            dataDir,
		DatabasePath:       filepath.Join(dataDir, "catalog.db"),
		MirrorURL:          "https://yaqwsx.github.io/jlcparts/data",
		LiveAPIURL:         "https://wmsc.lcsc.com/ftps/wm/product/detail",
		LiveTimeoutSeconds: 10,
		LiveWorkers:        4,
		IngestWorkers:      4,
		LogLevel:           "info",
	}
}

// Load reads configuration from path (optional, "" skips the file) and
// applies environment overrides on top of defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	// A file may set data_dir without database_path; keep them coupled.
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(cfg.DataDir, "catalog.db")
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("JLCSEARCH_DATA_DIR"); v != "" {
		c.DataDir = v
		c.DatabasePath = filepath.Join(v, "catalog.db")
	}
	if v := os.Getenv("JLCSEARCH_DB_PATH"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("JLCSEARCH_MIRROR_URL"); v != "" {
		c.MirrorURL = v
	}
	if v := os.Getenv("JLCSEARCH_LIVE_API_URL"); v != "" {
		c.LiveAPIURL = v
	}
	if v := os.Getenv("JLCSEARCH_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}
