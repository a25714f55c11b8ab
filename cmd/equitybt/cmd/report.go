package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantbox/equitybt/journal"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Inspect journaled backtest runs",
	Long: `Report reads a SQLite journal and prints run summaries. With --run it
prints one run's metrics, equity curve tail and trades.`,
	RunE: runReport,
}

var (
	reportDBPath string
	reportRunID  string
	reportTrades bool
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportDBPath, "db", "d", "./backtest.sqlite", "path to SQLite journal DB")
	reportCmd.Flags().StringVarP(&reportRunID, "run", "r", "", "run ID to inspect (defaults to listing all runs)")
	reportCmd.Flags().BoolVar(&reportTrades, "trades", false, "list the run's trades")
}

func runReport(cobraCmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(reportDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	if reportRunID == "" {
		runs, err := j.ListRuns()
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no runs journaled")
			return nil
		}
		fmt.Printf("%-28s %-10s %-12s %-12s %10s %8s\n",
			"RUN", "STRATEGY", "START", "END", "RETURN", "TRADES")
		for _, r := range runs {
			fmt.Printf("%-28s %-10s %-12s %-12s %9.2f%% %8d\n",
				r.RunID, r.Strategy, r.Start, r.End, 100*r.TotalReturn, r.Trades)
		}
		return nil
	}

	run, err := j.GetRun(reportRunID)
	if err != nil {
		return err
	}
	fmt.Printf("Run %s (%s)\n", run.RunID, run.Strategy)
	fmt.Printf("  Period:     %s .. %s (%d days)\n", run.Start, run.End, run.Days)
	fmt.Printf("  Cash:       %.2f -> %.2f\n", run.InitialCash, run.FinalEquity)
	fmt.Printf("  Return:     %.2f%% (annualized %.2f%%)\n", 100*run.TotalReturn, 100*run.AnnualizedReturn)
	fmt.Printf("  Drawdown:   %.2f%%\n", 100*run.MaxDrawdown)
	fmt.Printf("  Volatility: %.2f%%\n", 100*run.Volatility)
	fmt.Printf("  Sharpe:     %.2f\n", run.Sharpe)
	fmt.Printf("  Trades:     %d\n", run.Trades)

	if !reportTrades {
		return nil
	}

	trades, err := j.ListTradesByRun(reportRunID)
	if err != nil {
		return err
	}
	fmt.Printf("\n%-12s %-10s %-5s %8s %10s %10s\n", "DATE", "SYMBOL", "SIDE", "VOLUME", "PRICE", "FEES")
	for _, t := range trades {
		fmt.Printf("%-12s %-10s %-5s %8d %10.2f %10.2f\n",
			t.Date, t.Symbol, t.Side, t.Volume, t.Price,
			t.Commission+t.StampDuty+t.TransferFee)
	}
	return nil
}
