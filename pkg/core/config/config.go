// Package config loads runtime settings: a YAML file for tunables, the
// environment (via .env when present) for secrets and endpoints.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"equityscore/pkg/core/dcf"
	"equityscore/pkg/core/metrics"
)

// ProviderConfig selects and tunes the data source. When FixtureDir is set
// the directory provider is used and the HTTP settings are ignored.
type ProviderConfig struct {
	BaseURL           string  `yaml:"base_url"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	CacheDir          string  `yaml:"cache_dir"`
	FixtureDir        string  `yaml:"fixture_dir"`
}

// Config is the full runtime configuration.
type Config struct {
	Currency   metrics.CurrencyConfig `yaml:"currency"`
	Scenarios  []dcf.Scenario         `yaml:"scenarios"`
	Provider   ProviderConfig         `yaml:"provider"`
	RuleTables string                 `yaml:"rule_tables"`
	LogLevel   string                 `yaml:"log_level"`

	// DatabaseURL comes from the environment only; empty disables persistence.
	DatabaseURL string `yaml:"-"`
}

// Default returns the built-in configuration used when no file is given.
func Default() Config {
	return Config{
		Currency:  metrics.DefaultCurrencyConfig(),
		Scenarios: dcf.DefaultScenarios(),
		Provider: ProviderConfig{
			RequestsPerSecond: 2,
			CacheDir:          "data/cache",
		},
		LogLevel: "info",
	}
}

// Load builds the configuration from defaults, an optional YAML file, and the
// environment. A .env file in the working directory is honored when present.
func Load(path string) (Config, error) {
	godotenv.Load()

	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, nil
}
