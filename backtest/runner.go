// Package backtest drives one session day-by-day: pull bars, ask the signal
// source for target orders, match, settle, mark to market. Each day depends
// on the prior day's fully settled account, so a session is strictly
// sequential; independent sessions can run concurrently because nothing here
// is shared.
package backtest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/quantbox/equitybt/account"
	"github.com/quantbox/equitybt/exec"
	"github.com/quantbox/equitybt/internal/id"
	"github.com/quantbox/equitybt/journal"
	"github.com/quantbox/equitybt/market"
	"github.com/quantbox/equitybt/metrics"
	"github.com/quantbox/equitybt/signal"
)

// Config carries everything a session needs up front. There is no ambient
// state; thresholds and fees always arrive through this struct.
type Config struct {
	InitialCash    float64
	Execution      exec.Config
	PeriodsPerYear float64
}

// Validate is called once before any day is processed; a malformed config is
// fatal at session start.
func (c Config) Validate() error {
	if c.InitialCash <= 0 {
		return fmt.Errorf("initial cash must be positive, got %v", c.InitialCash)
	}
	return c.Execution.Validate()
}

// Result is the complete output of one session.
type Result struct {
	RunID   string
	Account *account.Account
	Orders  []*exec.Order
	Trades  []exec.Trade
	Curve   []account.DailyPerformance
	Metrics metrics.Summary
}

// Runner executes backtest sessions. A Runner may be reused; each Run owns a
// fresh Account.
type Runner struct {
	cfg     Config
	engine  *exec.Engine
	journal journal.Journal
	log     *zap.Logger
}

// NewRunner validates the config and builds a runner. journal and log may be
// nil; they default to journal.Nop and a no-op logger.
func NewRunner(cfg Config, j journal.Journal, log *zap.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("backtest config: %w", err)
	}
	if cfg.PeriodsPerYear <= 0 {
		cfg.PeriodsPerYear = metrics.DefaultPeriodsPerYear
	}
	if j == nil {
		j = journal.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		cfg:     cfg,
		engine:  exec.NewEngine(cfg.Execution),
		journal: j,
		log:     log,
	}, nil
}

// Run processes every trading day in the feed. Cancellation is checked
// between days only; there is no mid-day abort. Given identical inputs the
// resulting equity curve is bit-identical across runs.
func (r *Runner) Run(ctx context.Context, feed *market.Feed, src signal.Source) (*Result, error) {
	runID := id.New()
	acct := account.New(r.cfg.InitialCash)

	res := &Result{
		RunID:   runID,
		Account: acct,
	}

	r.log.Info("backtest started",
		zap.String("run_id", runID),
		zap.String("strategy", src.Name()),
		zap.Int("days", feed.Len()),
		zap.Float64("initial_cash", r.cfg.InitialCash))

	for _, day := range feed.Days() {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("backtest aborted before %s: %w", day, err)
		}

		bars := feed.Day(day)
		if err := r.checkHeldBars(acct, bars, day); err != nil {
			return res, err
		}

		orders := r.buildOrders(src.Signals(day, bars, acct))
		trades, err := r.engine.ExecuteDay(acct, orders, bars, day)
		if err != nil {
			return res, err
		}
		res.Orders = append(res.Orders, orders...)
		res.Trades = append(res.Trades, trades...)

		for _, o := range orders {
			if o.Status == exec.StatusCancelled {
				r.log.Debug("order rejected",
					zap.String("run_id", runID),
					zap.String("date", string(day)),
					zap.String("symbol", o.Symbol),
					zap.String("side", string(o.Side)),
					zap.String("reason", o.Reason))
			}
		}
		for _, t := range trades {
			if err := r.journal.RecordTrade(journal.NewTradeRecord(runID, t)); err != nil {
				return res, fmt.Errorf("journal trade: %w", err)
			}
		}

		snap, err := acct.MarkToMarket(day, closingPrices(bars))
		if err != nil {
			return res, &DataError{Date: day, Reason: err.Error()}
		}
		if err := r.journal.RecordDaily(journal.DailyRecord{
			RunID:            runID,
			Date:             string(day),
			Cash:             snap.Cash,
			Equity:           snap.Equity,
			DrawdownFromPeak: snap.DrawdownFromPeak,
			DailyReturn:      snap.DailyReturn,
		}); err != nil {
			return res, fmt.Errorf("journal daily: %w", err)
		}

		r.log.Debug("day settled",
			zap.String("run_id", runID),
			zap.String("date", string(day)),
			zap.Int("orders", len(orders)),
			zap.Int("trades", len(trades)),
			zap.Float64("equity", snap.Equity))
	}

	res.Curve = acct.Curve()
	res.Metrics = metrics.Compute(res.Curve, r.cfg.PeriodsPerYear)

	if feed.Len() > 0 {
		days := feed.Days()
		rec := journal.NewRunRecord(
			runID, src.Name(),
			string(days[0]), string(days[len(days)-1]),
			feed.Len(), len(res.Trades),
			r.cfg.InitialCash, acct.Equity(),
			res.Metrics,
		)
		if err := r.journal.RecordRun(rec); err != nil {
			return res, fmt.Errorf("journal run: %w", err)
		}
	}

	r.log.Info("backtest finished",
		zap.String("run_id", runID),
		zap.Int("trades", len(res.Trades)),
		zap.Float64("final_equity", acct.Equity()),
		zap.Float64("max_drawdown", res.Metrics.MaxDrawdown))

	return res, nil
}

// checkHeldBars fails fast when a bar is missing for a symbol the account
// holds. Without the bar there is no way to tell a suspension from a data
// gap, so the session halts rather than skipping the day.
func (r *Runner) checkHeldBars(acct *account.Account, bars map[string]market.Bar, day market.Date) error {
	for _, pos := range acct.Positions() {
		if _, ok := bars[pos.Symbol]; !ok {
			return &DataError{Date: day, Symbol: pos.Symbol, Reason: "missing bar for held symbol"}
		}
	}
	return nil
}

func (r *Runner) buildOrders(signals []signal.Signal) []*exec.Order {
	orders := make([]*exec.Order, 0, len(signals))
	for _, s := range signals {
		orders = append(orders, exec.NewOrder(s.Symbol, s.Side, s.Volume, s.Price))
	}
	return orders
}

// closingPrices keeps only usable closes. A suspended bar without a carried
// last close is excluded, so marking a position against it fails loudly in
// the ledger instead of valuing the holding at zero.
func closingPrices(bars map[string]market.Bar) map[string]float64 {
	closes := make(map[string]float64, len(bars))
	for symbol, b := range bars {
		if b.Close > 0 {
			closes[symbol] = b.Close
		}
	}
	return closes
}
