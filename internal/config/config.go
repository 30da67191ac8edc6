// Package config loads the server configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"udonboard/internal/cooking"
)

// Config represents the application configuration
type Config struct {
	ListenAddr  string `yaml:"listen_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`

	Pots struct {
		Count int `yaml:"count"`
	} `yaml:"pots"`

	// Timing selects a named profile; any non-zero override replaces
	// the profile's value.
	Timing struct {
		Profile              string `yaml:"profile"` // production | demo
		SoftSecs             int    `yaml:"soft_secs"`
		NormalSecs           int    `yaml:"normal_secs"`
		FirmSecs             int    `yaml:"firm_secs"`
		PreBoilReductionSecs int    `yaml:"pre_boil_reduction_secs"`
		MinSecs              int    `yaml:"min_secs"`
	} `yaml:"timing"`

	Feed struct {
		Enabled     bool    `yaml:"enabled"`
		Schedule    string  `yaml:"schedule"`
		Probability float64 `yaml:"probability"`
	} `yaml:"feed"`

	History struct {
		Driver string `yaml:"driver"` // sqlite3 | postgres
		DSN    string `yaml:"dsn"`
	} `yaml:"history"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{
		ListenAddr:  ":8080",
		MetricsAddr: ":9090",
		LogLevel:    "info",
	}
	cfg.Pots.Count = 6
	cfg.Timing.Profile = "production"
	cfg.Feed.Enabled = true
	cfg.Feed.Schedule = "@every 15s"
	cfg.Feed.Probability = 0.1
	cfg.History.Driver = "sqlite3"
	cfg.History.DSN = "udonboard.db"
	return cfg
}

// Load reads the YAML file at path over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the server cannot run
// with.
func (c *Config) Validate() error {
	if c.Pots.Count < 1 {
		return fmt.Errorf("pots.count must be at least 1, got %d", c.Pots.Count)
	}
	switch c.Timing.Profile {
	case "production", "demo":
	default:
		return fmt.Errorf("timing.profile must be production or demo, got %q", c.Timing.Profile)
	}
	if c.Feed.Probability < 0 || c.Feed.Probability > 1 {
		return fmt.Errorf("feed.probability must be in [0, 1], got %g", c.Feed.Probability)
	}
	switch c.History.Driver {
	case "", "sqlite3", "postgres":
	default:
		return fmt.Errorf("history.driver must be sqlite3 or postgres, got %q", c.History.Driver)
	}
	return nil
}

// DurationPolicy resolves the timing section into a cook-duration
// policy.
func (c *Config) DurationPolicy() cooking.DurationPolicy {
	p := cooking.ProductionPolicy()
	if c.Timing.Profile == "demo" {
		p = cooking.DemoPolicy()
	}
	if c.Timing.SoftSecs > 0 {
		p.SoftSecs = c.Timing.SoftSecs
	}
	if c.Timing.NormalSecs > 0 {
		p.NormalSecs = c.Timing.NormalSecs
	}
	if c.Timing.FirmSecs > 0 {
		p.FirmSecs = c.Timing.FirmSecs
	}
	if c.Timing.PreBoilReductionSecs > 0 {
		p.PreBoilReductionSecs = c.Timing.PreBoilReductionSecs
	}
	if c.Timing.MinSecs > 0 {
		p.MinSecs = c.Timing.MinSecs
	}
	return p
}
