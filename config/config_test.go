package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 0.001, cfg.Backtest.SlippagePct)
	assert.Equal(t, 0.1, cfg.Backtest.CommissionPerTrade)
	assert.Equal(t, 100000.0, cfg.Backtest.InitialCash)
	assert.Equal(t, "SYM_A", cfg.Alphas.Pairs.SymbolA)
	assert.Equal(t, 60, cfg.Alphas.Pairs.Lookback)
	assert.Equal(t, 34, cfg.Alphas.MTF.Slow)
	assert.Equal(t, []string{"SYM_A", "SYM_B", "SYM_C"}, cfg.Alphas.MultiAsset.Symbols)
	assert.Equal(t, 0.2, cfg.Alphas.Orderbook.ImbalanceThreshold)
	assert.Equal(t, "results", cfg.Storage.BasePath)
	assert.Equal(t, "none", cfg.Journal.Type)
}

func TestLoadFromFile_YAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
seed: 7
backtest:
  slippage_pct: 0.002
alphas:
  alpha_1_pairs:
    lookback: 30
`)
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 0.002, cfg.Backtest.SlippagePct)
	assert.Equal(t, 30, cfg.Alphas.Pairs.Lookback)
	// Untouched fields keep their defaults.
	assert.Equal(t, 100000.0, cfg.Backtest.InitialCash)
	assert.Equal(t, "SYM_B", cfg.Alphas.Pairs.SymbolB)
}

func TestLoadFromFile_JSONFallback(t *testing.T) {
	path := writeConfig(t, "config.json", `{"seed": 9, "backtest": {"initial_cash": 5000}}`)
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, 5000.0, cfg.Backtest.InitialCash)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFile_RejectsInvalid(t *testing.T) {
	path := writeConfig(t, "bad.yaml", `
backtest:
  initial_cash: -1
`)
	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initial_cash")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero tick size", func(c *Config) { c.Backtest.TickSize = 0 }, "tick_size"},
		{"zero lot size", func(c *Config) { c.Backtest.LotSize = 0 }, "lot_size"},
		{"negative commission", func(c *Config) { c.Backtest.CommissionPerTrade = -1 }, "commission_per_trade"},
		{"missing pair leg", func(c *Config) { c.Alphas.Pairs.SymbolB = "" }, "alpha_1_pairs"},
		{"short pairs lookback", func(c *Config) { c.Alphas.Pairs.Lookback = 1 }, "lookback"},
		{"empty rotation list", func(c *Config) { c.Alphas.MultiAsset.Symbols = nil }, "alpha_4_multi_asset"},
		{"threshold out of range", func(c *Config) { c.Alphas.Orderbook.ImbalanceThreshold = 1 }, "imbalance_threshold"},
		{"empty base path", func(c *Config) { c.Storage.BasePath = "" }, "base_path"},
		{"sqlite without path", func(c *Config) { c.Journal = JournalConfig{Type: "sqlite"} }, "db_path"},
		{"unknown journal type", func(c *Config) { c.Journal.Type = "postgres" }, "journal.type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestSaveToFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"config.yaml", "config.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			orig := Default()
			orig.Seed = 1234
			require.NoError(t, orig.SaveToFile(path))

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, orig, loaded)
		})
	}
}
