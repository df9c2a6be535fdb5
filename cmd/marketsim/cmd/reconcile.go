package cmd

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/quantlab/marketsim/reconcile"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Compare a sandbox run against a replay run",
	Long: `Load the fill and order logs of a sandbox run and a replay run,
compute aggregate and per-alpha PnL, and write a PASS/FAIL verdict
document plus per-alpha mismatch reports.

A mismatch is a result, not an error: the command succeeds and reports
the verdict either way.

Example:
  marketsim reconcile --sandbox-prefix results/run_local_001 --replay-dir results/replay_run_local_001_market --out results/results.json`,
	RunE: runReconcile,
}

var (
	reconcileSandboxPrefix string
	reconcileReplayDir     string
	reconcileOutPath       string
)

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVar(&reconcileSandboxPrefix, "sandbox-prefix", "", "path prefix of the sandbox artifacts, e.g. results/run_local_001 (required)")
	reconcileCmd.Flags().StringVar(&reconcileReplayDir, "replay-dir", "", "directory holding the replay's order_log/fill_log (required)")
	reconcileCmd.Flags().StringVar(&reconcileOutPath, "out", "results.json", "path of the verdict document")
	reconcileCmd.MarkFlagRequired("sandbox-prefix")
	reconcileCmd.MarkFlagRequired("replay-dir")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	result, err := reconcile.New(logger).Compare(reconcile.Options{
		SandboxFills:  reconcileSandboxPrefix + "_fill.ndjson",
		SandboxOrders: reconcileSandboxPrefix + "_order.ndjson",
		ReplayFills:   filepath.Join(reconcileReplayDir, "fill_log.ndjson"),
		ReplayOrders:  filepath.Join(reconcileReplayDir, "order_log.ndjson"),
		OutPath:       reconcileOutPath,
	})
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	alphaIDs := make([]string, 0, len(result.Alphas))
	for alpha := range result.Alphas {
		alphaIDs = append(alphaIDs, alpha)
	}
	sort.Strings(alphaIDs)

	fmt.Printf("Reconciliation complete!\n")
	fmt.Printf("  Portfolio PnL match: %s\n", result.PortfolioPnL.PnLMatch)
	for _, alpha := range alphaIDs {
		a := result.Alphas[alpha]
		fmt.Printf("  %-22s trades=%-5d pnl=%-14.8f %s\n", alpha, a.Trades, a.PnL, a.Match)
	}
	fmt.Printf("  Results: %s\n", reconcileOutPath)
	if !result.Passed() {
		fmt.Printf("  Mismatch reports: %d\n", len(result.MismatchReports))
	}
	return nil
}
