// Package config loads and validates the simulator configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the complete run configuration.
type Config struct {
	Seed     int64          `json:"seed" yaml:"seed"`
	Backtest BacktestConfig `json:"backtest" yaml:"backtest"`
	Alphas   AlphasConfig   `json:"alphas" yaml:"alphas"`
	Storage  StorageConfig  `json:"storage" yaml:"storage"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// BacktestConfig holds the execution-model and portfolio parameters.
type BacktestConfig struct {
	SlippageAbs        float64 `json:"slippage_abs" yaml:"slippage_abs"`
	SlippagePct        float64 `json:"slippage_pct" yaml:"slippage_pct"`
	CommissionPerTrade float64 `json:"commission_per_trade" yaml:"commission_per_trade"`
	InitialCash        float64 `json:"initial_cash" yaml:"initial_cash"`
	TickSize           float64 `json:"tick_size" yaml:"tick_size"`
	LotSize            float64 `json:"lot_size" yaml:"lot_size"`
}

// AlphasConfig carries per-strategy parameters keyed by alpha id.
type AlphasConfig struct {
	Pairs      PairsConfig     `json:"alpha_1_pairs" yaml:"alpha_1_pairs"`
	Breakout   BreakoutConfig  `json:"alpha_2_breakout" yaml:"alpha_2_breakout"`
	MTF        MTFConfig       `json:"alpha_3_mtf" yaml:"alpha_3_mtf"`
	MultiAsset RotatorConfig   `json:"alpha_4_multi_asset" yaml:"alpha_4_multi_asset"`
	Orderbook  OrderbookConfig `json:"alpha_5_orderbook" yaml:"alpha_5_orderbook"`
}

type PairsConfig struct {
	SymbolA  string  `json:"symbol_a" yaml:"symbol_a"`
	SymbolB  string  `json:"symbol_b" yaml:"symbol_b"`
	Lookback int     `json:"lookback" yaml:"lookback"`
	ZEnter   float64 `json:"z_enter" yaml:"z_enter"`
	ZExit    float64 `json:"z_exit" yaml:"z_exit"`
}

type BreakoutConfig struct {
	Symbol   string `json:"symbol" yaml:"symbol"`
	Lookback int    `json:"lookback" yaml:"lookback"`
}

type MTFConfig struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	Fast   int    `json:"fast" yaml:"fast"`
	Slow   int    `json:"slow" yaml:"slow"`
}

type RotatorConfig struct {
	Symbols []string `json:"symbols" yaml:"symbols"`
}

type OrderbookConfig struct {
	Symbol             string  `json:"symbol" yaml:"symbol"`
	ImbalanceThreshold float64 `json:"imbalance_threshold" yaml:"imbalance_threshold"`
}

// StorageConfig points at the directory all run artifacts land in.
type StorageConfig struct {
	BasePath string `json:"base_path" yaml:"base_path"`
}

// JournalConfig enables the optional SQLite fill/equity store.
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "sqlite" or "none"
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads a YAML or JSON configuration. YAML is tried first,
// JSON as a fallback, regardless of extension.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration, YAML for .yaml/.yml and JSON
// otherwise.
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
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for values the run cannot start with.
func (c *Config) Validate() error {
	if c.Backtest.InitialCash <= 0 {
		return fmt.Errorf("backtest.initial_cash must be positive")
	}
	if c.Backtest.TickSize <= 0 {
		return fmt.Errorf("backtest.tick_size must be positive")
	}
	if c.Backtest.LotSize <= 0 {
		return fmt.Errorf("backtest.lot_size must be positive")
	}
	if c.Backtest.SlippagePct < 0 || c.Backtest.CommissionPerTrade < 0 {
		return fmt.Errorf("backtest slippage_pct and commission_per_trade must not be negative")
	}
	if c.Alphas.Pairs.SymbolA == "" || c.Alphas.Pairs.SymbolB == "" {
		return fmt.Errorf("alphas.alpha_1_pairs symbols are required")
	}
	if c.Alphas.Pairs.Lookback < 2 {
		return fmt.Errorf("alphas.alpha_1_pairs.lookback must be at least 2")
	}
	if c.Alphas.Breakout.Lookback < 1 {
		return fmt.Errorf("alphas.alpha_2_breakout.lookback must be at least 1")
	}
	if c.Alphas.MTF.Fast < 1 || c.Alphas.MTF.Slow < 1 {
		return fmt.Errorf("alphas.alpha_3_mtf fast/slow spans must be at least 1")
	}
	if len(c.Alphas.MultiAsset.Symbols) == 0 {
		return fmt.Errorf("alphas.alpha_4_multi_asset.symbols is required")
	}
	if c.Alphas.Orderbook.ImbalanceThreshold <= 0 || c.Alphas.Orderbook.ImbalanceThreshold >= 1 {
		return fmt.Errorf("alphas.alpha_5_orderbook.imbalance_threshold must be in (0, 1)")
	}
	if c.Storage.BasePath == "" {
		return fmt.Errorf("storage.base_path is required")
	}
	switch c.Journal.Type {
	case "", "none":
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite journal")
		}
	default:
		return fmt.Errorf("journal.type must be 'sqlite' or 'none'")
	}
	return nil
}

// Default returns a configuration with the reference parameters.
func Default() *Config {
	return &Config{
		Seed: 42,
		Backtest: BacktestConfig{
			SlippageAbs:        0.0,
			SlippagePct:        0.001,
			CommissionPerTrade: 0.1,
			InitialCash:        100000,
			TickSize:           0.01,
			LotSize:            1.0,
		},
		Alphas: AlphasConfig{
			Pairs: PairsConfig{
				SymbolA:  "SYM_A",
				SymbolB:  "SYM_B",
				Lookback: 60,
				ZEnter:   2.0,
				ZExit:    0.5,
			},
			Breakout: BreakoutConfig{Symbol: "SYM_C", Lookback: 20},
			MTF:      MTFConfig{Symbol: "SYM_D", Fast: 8, Slow: 34},
			MultiAsset: RotatorConfig{
				Symbols: []string{"SYM_A", "SYM_B", "SYM_C"},
			},
			Orderbook: OrderbookConfig{Symbol: "SYM_E", ImbalanceThreshold: 0.2},
		},
		Storage: StorageConfig{BasePath: "results"},
		Journal: JournalConfig{Type: "none"},
	}
}
