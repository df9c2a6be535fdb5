package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "marketsim",
	Short: "A deterministic event-driven market simulator",
	Long: `Marketsim replays market events through a set of trading alphas,
simulates orders and fills with a reproducible execution model, and
verifies that two independent runs over equivalent inputs agree
bit-for-bit at the fill level.

It provides tools for:
  - Generating deterministic sandbox runs with synthetic market data
  - Replaying captured event logs through the same pipeline
  - Reconciling two runs' order/fill logs down to individual fills`,
}

var logLevel string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
}

// newLogger builds the run-scoped logger handed to each component.
func newLogger() zerolog.Logger {
	lvl, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().Level(lvl)
}
