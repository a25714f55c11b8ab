// Package config loads and validates one session's configuration. Everything
// the core consumes arrives through this struct; nothing reads the
// environment after session start.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quantbox/equitybt/backtest"
	"github.com/quantbox/equitybt/exec"
	"github.com/quantbox/equitybt/fees"
	"github.com/quantbox/equitybt/metrics"
	"github.com/quantbox/equitybt/risk"
	"github.com/quantbox/equitybt/signal"
)

// Config represents the complete backtest session configuration.
type Config struct {
	Account   AccountConfig       `json:"account" yaml:"account"`
	Execution ExecutionConfig     `json:"execution" yaml:"execution"`
	Fees      fees.Schedule       `json:"fees" yaml:"fees"`
	Risk      risk.Thresholds     `json:"risk" yaml:"risk"`
	Strategy  StrategyConfig      `json:"strategy" yaml:"strategy"`
	Journal   JournalConfig       `json:"journal" yaml:"journal"`
	Metrics   MetricsConfig       `json:"metrics" yaml:"metrics"`
	Sectors   map[string]string   `json:"sectors,omitempty" yaml:"sectors,omitempty"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	InitialCash float64 `json:"initial_cash" yaml:"initial_cash"`
}

// ExecutionConfig contains the market microstructure parameters.
type ExecutionConfig struct {
	LotSize          int64 `json:"lot_size" yaml:"lot_size"`
	AllowSameDaySell bool  `json:"allow_same_day_sell" yaml:"allow_same_day_sell"`
}

// StrategyConfig selects the signal source.
type StrategyConfig struct {
	Source      string                `json:"source" yaml:"source"` // "csv" or "ma-cross"
	SignalsFile string                `json:"signals_file,omitempty" yaml:"signals_file,omitempty"`
	MACross     signal.MACrossConfig  `json:"ma_cross,omitempty" yaml:"ma_cross,omitempty"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "sqlite", "csv" or "none"
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	DailyFile  string `json:"daily_file,omitempty" yaml:"daily_file,omitempty"`
	RunsFile   string `json:"runs_file,omitempty" yaml:"runs_file,omitempty"`
}

// MetricsConfig contains metric computation parameters.
type MetricsConfig struct {
	PeriodsPerYear float64 `json:"periods_per_year,omitempty" yaml:"periods_per_year,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON by content).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration. Failures here abort the session before
// any day is processed.
func (c *Config) Validate() error {
	if c.Account.InitialCash <= 0 {
		return fmt.Errorf("account.initial_cash must be positive")
	}
	if c.Execution.LotSize <= 0 {
		return fmt.Errorf("execution.lot_size must be positive")
	}
	if err := c.Fees.Validate(); err != nil {
		return fmt.Errorf("fees: %w", err)
	}
	if err := c.Risk.Validate(); err != nil {
		return fmt.Errorf("risk: %w", err)
	}
	switch c.Strategy.Source {
	case "csv":
		if c.Strategy.SignalsFile == "" {
			return fmt.Errorf("strategy.signals_file required for csv source")
		}
	case "ma-cross":
	default:
		return fmt.Errorf("strategy.source must be 'csv' or 'ma-cross', got %q", c.Strategy.Source)
	}
	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite type")
		}
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.DailyFile == "" || c.Journal.RunsFile == "" {
			return fmt.Errorf("journal trades_file, daily_file and runs_file required for csv type")
		}
	case "none":
	default:
		return fmt.Errorf("journal.type must be 'sqlite', 'csv' or 'none', got %q", c.Journal.Type)
	}
	if c.Metrics.PeriodsPerYear < 0 {
		return fmt.Errorf("metrics.periods_per_year must be >= 0")
	}
	return nil
}

// BacktestConfig assembles the runner configuration.
func (c *Config) BacktestConfig() backtest.Config {
	return backtest.Config{
		InitialCash: c.Account.InitialCash,
		Execution: exec.Config{
			LotSize:          c.Execution.LotSize,
			Fees:             c.Fees,
			AllowSameDaySell: c.Execution.AllowSameDaySell,
		},
		PeriodsPerYear: c.Metrics.PeriodsPerYear,
	}
}

// SectorLookup returns a lookup over the configured symbol→sector map.
func (c *Config) SectorLookup() risk.SectorLookup {
	if len(c.Sectors) == 0 {
		return risk.NoSectors
	}
	sectors := c.Sectors
	return func(symbol string) string { return sectors[symbol] }
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			InitialCash: 1_000_000,
		},
		Execution: ExecutionConfig{
			LotSize: 100,
		},
		Fees: fees.Default(),
		Risk: risk.Defaults(),
		Strategy: StrategyConfig{
			Source:  "ma-cross",
			MACross: signal.MACrossDefaults(),
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./backtest.sqlite",
		},
		Metrics: MetricsConfig{
			PeriodsPerYear: metrics.DefaultPeriodsPerYear,
		},
	}
}
