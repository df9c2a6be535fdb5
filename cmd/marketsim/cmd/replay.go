package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quantlab/marketsim/backtest"
	"github.com/quantlab/marketsim/journal"
	"github.com/quantlab/marketsim/market"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a captured market event log",
	Long: `Replay an NDJSON market log through the pipeline, producing order,
fill and signal logs plus replay metadata in the output directory.

Examples:
  marketsim replay --market-log results/run_local_001_market.ndjson
  marketsim replay -f configs/sim.yaml --market-log data/market.ndjson --out-dir results/replay_1`,
	RunE: runReplay,
}

var (
	replayConfigPath string
	replayMarketLog  string
	replayOutDir     string
	replayEquityCSV  bool
)

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVarP(&replayConfigPath, "config", "f", "", "path to config file (defaults apply when omitted)")
	replayCmd.Flags().StringVarP(&replayMarketLog, "market-log", "m", "", "NDJSON market event log to replay (required)")
	replayCmd.Flags().StringVarP(&replayOutDir, "out-dir", "o", "", "output directory (default <base_path>/replay_<log name>)")
	replayCmd.Flags().BoolVar(&replayEquityCSV, "equity-csv", false, "also export the equity curve as CSV for reporting")
	replayCmd.MarkFlagRequired("market-log")
}

func runReplay(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := loadOrDefault(replayConfigPath)
	if err != nil {
		return err
	}

	outDir := replayOutDir
	if outDir == "" {
		name := strings.TrimSuffix(filepath.Base(replayMarketLog), ".ndjson")
		outDir = filepath.Join(cfg.Storage.BasePath, "replay_"+name)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	feed, err := market.NewNDJSONFeed(replayMarketLog)
	if err != nil {
		return fmt.Errorf("open market log: %w", err)
	}
	defer feed.Close()

	paths := backtest.ReplayPaths(outDir)
	engine, err := backtest.NewEngine(cfg, logger, "", paths)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	defer engine.Close()

	if cfg.Journal.Type == "sqlite" {
		store, err := journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return fmt.Errorf("open journal db: %w", err)
		}
		defer store.Close()
		engine.AttachStore(store)
	}

	if err := engine.Run(feed); err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	if n := feed.Skipped(); n > 0 {
		logger.Warn().Int("lines", n).Msg("replay: malformed market log lines skipped")
	}

	if replayEquityCSV {
		csvPath := filepath.Join(outDir, "equity.csv")
		if err := journal.WriteEquityCSV(csvPath, engine.Portfolio().EquitySeries()); err != nil {
			return fmt.Errorf("export equity csv: %w", err)
		}
		fmt.Printf("Equity curve: %s\n", csvPath)
	}

	fmt.Printf("Replay complete!\n")
	fmt.Printf("  Outputs in: %s\n", outDir)
	fmt.Printf("  Final cash: %s\n", engine.Portfolio().Cash().String())
	return nil
}
