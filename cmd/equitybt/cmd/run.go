package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantbox/equitybt/backtest"
	"github.com/quantbox/equitybt/config"
	"github.com/quantbox/equitybt/journal"
	"github.com/quantbox/equitybt/market"
	"github.com/quantbox/equitybt/risk"
	"github.com/quantbox/equitybt/signal"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a backtest over a daily bar file",
	Long: `Run replays daily bars through the matching engine and reports the
resulting equity curve, metrics and risk evaluation.

Signals come either from a CSV file (date,symbol,side,volume,price), e.g. an
exported LLM decision plan, or from the built-in ma-cross demo strategy.

Example:
  equitybt run --bars data/bars.csv --signals data/signals.csv --strategy csv`,
	RunE: runBacktest,
}

var (
	runConfigPath  string
	runBarsPath    string
	runSignalsPath string
	runStrategy    string
	runDBPath      string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "path to session config (YAML or JSON)")
	runCmd.Flags().StringVarP(&runBarsPath, "bars", "b", "", "path to daily bars CSV (required)")
	runCmd.Flags().StringVarP(&runSignalsPath, "signals", "s", "", "path to signals CSV (overrides config)")
	runCmd.Flags().StringVar(&runStrategy, "strategy", "", "signal source: csv or ma-cross (overrides config)")
	runCmd.Flags().StringVarP(&runDBPath, "db", "d", "", "path to SQLite journal DB (overrides config)")

	runCmd.MarkFlagRequired("bars")
}

func runBacktest(cobraCmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg := config.Default()
	if runConfigPath != "" {
		cfg, err = config.LoadFromFile(runConfigPath)
		if err != nil {
			return err
		}
	}
	if runStrategy != "" {
		cfg.Strategy.Source = runStrategy
	}
	if runSignalsPath != "" {
		cfg.Strategy.Source = "csv"
		cfg.Strategy.SignalsFile = runSignalsPath
	}
	if runDBPath != "" {
		cfg.Journal.Type = "sqlite"
		cfg.Journal.DBPath = runDBPath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	bars, err := market.LoadCSV(runBarsPath)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}
	feed, err := market.NewFeed(bars)
	if err != nil {
		return fmt.Errorf("build feed: %w", err)
	}

	src, err := signalSource(cfg)
	if err != nil {
		return err
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	runner, err := backtest.NewRunner(cfg.BacktestConfig(), j, log)
	if err != nil {
		return err
	}

	res, err := runner.Run(context.Background(), feed, src)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	printResult(cfg, feed, res)
	return nil
}

func signalSource(cfg *config.Config) (signal.Source, error) {
	switch cfg.Strategy.Source {
	case "csv":
		return signal.LoadCSV(cfg.Strategy.SignalsFile)
	case "ma-cross":
		return signal.NewMACross(cfg.Strategy.MACross), nil
	default:
		return nil, fmt.Errorf("unknown signal source %q", cfg.Strategy.Source)
	}
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	case "csv":
		return journal.NewCSV(jc.TradesFile, jc.DailyFile, jc.RunsFile)
	default:
		return journal.Nop{}, nil
	}
}

func printResult(cfg *config.Config, feed *market.Feed, res *backtest.Result) {
	fmt.Printf("Backtest complete: run %s\n", res.RunID)
	fmt.Printf("  Days:       %d\n", len(res.Curve))
	fmt.Printf("  Trades:     %d\n", len(res.Trades))
	fmt.Printf("  Cash:       %.2f\n", res.Account.Cash())
	fmt.Printf("  Equity:     %.2f\n", res.Account.Equity())
	fmt.Printf("  Return:     %.2f%% (annualized %.2f%%)\n",
		100*res.Metrics.TotalReturn, 100*res.Metrics.AnnualizedReturn)
	fmt.Printf("  Drawdown:   %.2f%%\n", 100*res.Metrics.MaxDrawdown)
	fmt.Printf("  Volatility: %.2f%%\n", 100*res.Metrics.Volatility)
	fmt.Printf("  Sharpe:     %.2f\n", res.Metrics.Sharpe)

	days := feed.Days()
	if len(days) == 0 {
		return
	}
	closes := make(map[string]float64)
	for symbol, bar := range feed.Day(days[len(days)-1]) {
		if bar.Close > 0 {
			closes[symbol] = bar.Close
		}
	}
	gate := risk.Evaluate(cfg.Risk, res.Curve, risk.Exposures(res.Account, closes), cfg.SectorLookup())
	if gate.Passed {
		fmt.Println("  Risk gate:  PASS")
		return
	}
	fmt.Println("  Risk gate:  FAIL")
	for _, reason := range gate.Reasons() {
		fmt.Printf("    - %s\n", reason)
	}
}
