package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "ma-cross", cfg.Strategy.Source)
	assert.InDelta(t, 1_000_000, cfg.Account.InitialCash, 1e-9)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero cash", func(c *Config) { c.Account.InitialCash = 0 }, "initial_cash"},
		{"zero lot size", func(c *Config) { c.Execution.LotSize = 0 }, "lot_size"},
		{"negative fee", func(c *Config) { c.Fees.CommissionRate = -1 }, "fees"},
		{"negative risk threshold", func(c *Config) { c.Risk.MaxEquityDrawdown = -0.1 }, "risk"},
		{"unknown strategy", func(c *Config) { c.Strategy.Source = "oracle" }, "strategy.source"},
		{"csv strategy without file", func(c *Config) { c.Strategy.Source = "csv" }, "signals_file"},
		{"unknown journal", func(c *Config) { c.Journal.Type = "kafka" }, "journal.type"},
		{"sqlite journal without path", func(c *Config) { c.Journal.DBPath = "" }, "db_path"},
		{"csv journal without files", func(c *Config) { c.Journal = JournalConfig{Type: "csv"} }, "trades_file"},
		{"negative periods", func(c *Config) { c.Metrics.PeriodsPerYear = -1 }, "periods_per_year"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestSaveLoadRoundtripYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Account.InitialCash = 500_000
	cfg.Execution.AllowSameDaySell = true
	cfg.Risk.MaxHoldingDays = 30
	cfg.Sectors = map[string]string{"000001.SZ": "banking"}
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveLoadRoundtripJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Strategy = StrategyConfig{Source: "csv", SignalsFile: "signals.csv"}
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Strategy, loaded.Strategy)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("account:\n  initial_cash: 250000\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.InDelta(t, 250_000, cfg.Account.InitialCash, 1e-9)
	assert.Equal(t, int64(100), cfg.Execution.LotSize)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("account:\n  initial_cash: -1\n"), 0644))
	_, err := LoadFromFile(bad)
	assert.ErrorContains(t, err, "invalid config")

	garbage := filepath.Join(dir, "garbage.yaml")
	require.NoError(t, os.WriteFile(garbage, []byte("{{{not a config"), 0644))
	_, err = LoadFromFile(garbage)
	assert.Error(t, err)

	_, err = LoadFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestSectorLookup(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, "", cfg.SectorLookup()("000001.SZ"))

	cfg.Sectors = map[string]string{"000001.SZ": "banking"}
	lookup := cfg.SectorLookup()
	assert.Equal(t, "banking", lookup("000001.SZ"))
	assert.Equal(t, "", lookup("600000.SH"))
}

func TestBacktestConfig(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Execution.AllowSameDaySell = true
	bt := cfg.BacktestConfig()

	assert.InDelta(t, cfg.Account.InitialCash, bt.InitialCash, 1e-9)
	assert.Equal(t, cfg.Execution.LotSize, bt.Execution.LotSize)
	assert.True(t, bt.Execution.AllowSameDaySell)
	assert.Equal(t, cfg.Fees, bt.Execution.Fees)
}
