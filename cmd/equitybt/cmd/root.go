package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "equitybt",
	Short: "An A-share backtesting engine with a built-in risk gate",
	Long: `Equitybt replays daily bars against a signal source and settles orders
under A-share market rules:

  - T+1 settlement (no same-day sell of shares bought that day)
  - Daily price-limit bands with limit-touch fills
  - Suspension handling
  - Round-lot order sizing
  - Commission, stamp duty and transfer fees

Each run produces a daily equity curve, performance metrics and a
risk-policy evaluation, journaled to SQLite or CSV.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}
