// Package config loads onionhunter settings from an optional YAML
// file, ONIONHUNTER_* environment overrides, and built-in defaults.
// Flag values are applied last by the caller, so precedence is
// flags > environment > file > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the full runtime configuration.
type Config struct {
	Prefixes          []string `yaml:"prefixes"`
	Workers           int      `yaml:"workers"`
	ReportEvery       int      `yaml:"reportEvery"`
	UpdateIntervalSec int      `yaml:"updateIntervalSec"`
	GracePeriodSec    int      `yaml:"gracePeriodSec"`
	Count             int      `yaml:"count"`
	MetricsAddr       string   `yaml:"metricsAddr"`
	SaveDir           string   `yaml:"saveDir"`
	Mnemonic          bool     `yaml:"mnemonic"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Workers:           runtime.NumCPU(),
		ReportEvery:       1000,
		UpdateIntervalSec: 30,
		GracePeriodSec:    2,
	}
}

// Load reads the config file at path (skipped when empty) and applies
// environment overrides on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ONIONHUNTER_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("ONIONHUNTER_UPDATE_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.UpdateIntervalSec = n
		}
	}
	if v := os.Getenv("ONIONHUNTER_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("ONIONHUNTER_SAVE_DIR"); v != "" {
		cfg.SaveDir = v
	}
}

// Validate rejects configurations that must not start a search. These
// are surfaced to the operator before any worker is spawned.
func (c Config) Validate() error {
	if c.Count < 0 {
		return fmt.Errorf("config: count must not be negative, got %d", c.Count)
	}
	if c.Count == 0 && len(c.Prefixes) == 0 {
		return errors.New("config: at least one prefix is required")
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative, got %d", c.Workers)
	}
	if c.ReportEvery < 1 {
		return fmt.Errorf("config: reportEvery must be at least 1, got %d", c.ReportEvery)
	}
	if c.UpdateIntervalSec < 1 {
		return fmt.Errorf("config: updateIntervalSec must be at least 1, got %d", c.UpdateIntervalSec)
	}
	if c.GracePeriodSec < 1 {
		return fmt.Errorf("config: gracePeriodSec must be at least 1, got %d", c.GracePeriodSec)
	}
	return nil
}
