// Package account is the single source of truth for cash, positions and the
// daily equity curve of one backtest session. Only the matching engine
// mutates it, through ApplyFill, and the backtest loop appends one
// mark-to-market snapshot per trading day.
package account

import (
	"fmt"
	"sort"

	"github.com/quantbox/equitybt/fees"
	"github.com/quantbox/equitybt/market"
)

// DailyPerformance is one day's closing snapshot on the equity curve. Entries
// are append-only and never mutated once recorded.
type DailyPerformance struct {
	Date             market.Date
	Cash             float64
	Equity           float64
	DrawdownFromPeak float64
	DailyReturn      float64
}

// Fill is the ledger-mutation input produced by the matching engine for one
// executed trade.
type Fill struct {
	OrderID string
	Symbol  string
	Sell    bool
	Volume  int64
	Price   float64
	Fees    fees.Breakdown
	Date    market.Date

	// SellBefore is the T+1 cutoff for sells: only lots acquired strictly
	// before it may be reduced. Zero means same-day selling is allowed.
	SellBefore market.Date
}

// Account owns one session's cash, positions and equity curve.
type Account struct {
	cash      float64
	positions map[string]*Position
	curve     []DailyPerformance
	peak      float64
}

// New creates an account holding only cash.
func New(initialCash float64) *Account {
	return &Account{
		cash:      initialCash,
		positions: make(map[string]*Position),
	}
}

// Cash returns the current uninvested cash.
func (a *Account) Cash() float64 { return a.cash }

// Position returns the holding for symbol, or nil when none exists.
func (a *Account) Position(symbol string) *Position {
	return a.positions[symbol]
}

// Positions returns the current holdings sorted by symbol.
func (a *Account) Positions() []*Position {
	out := make([]*Position, 0, len(a.positions))
	for _, p := range a.positions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Curve returns the equity curve recorded so far.
func (a *Account) Curve() []DailyPerformance { return a.curve }

// Equity returns the latest marked equity, or cash before the first snapshot.
func (a *Account) Equity() float64 {
	if len(a.curve) == 0 {
		return a.cash
	}
	return a.curve[len(a.curve)-1].Equity
}

// ApplyFill settles one trade against cash and the symbol's position. The
// caller guarantees each fill is applied exactly once; the ledger does not
// deduplicate by order ID.
func (a *Account) ApplyFill(f Fill) error {
	if f.Volume <= 0 {
		return fmt.Errorf("apply fill %s: non-positive volume %d", f.OrderID, f.Volume)
	}
	notional := f.Price * float64(f.Volume)

	if f.Sell {
		pos := a.positions[f.Symbol]
		if pos == nil {
			return fmt.Errorf("apply fill %s: no position in %s", f.OrderID, f.Symbol)
		}
		if err := pos.removeVolume(f.Volume, f.SellBefore); err != nil {
			return fmt.Errorf("apply fill %s: %w", f.OrderID, err)
		}
		a.cash += notional - f.Fees.Total()
		if pos.Empty() {
			delete(a.positions, f.Symbol)
		}
		return nil
	}

	cost := notional + f.Fees.Total()
	if cost > a.cash {
		return fmt.Errorf("apply fill %s: cost %.2f exceeds cash %.2f", f.OrderID, cost, a.cash)
	}
	a.cash -= cost

	pos := a.positions[f.Symbol]
	if pos == nil {
		pos = &Position{Symbol: f.Symbol}
		a.positions[f.Symbol] = pos
	}
	pos.addLot(f.Volume, f.Price, f.Date)
	return nil
}

// MarkToMarket values all positions at the day's closing prices and appends
// the day's DailyPerformance snapshot. Every held symbol must have a closing
// price; a missing one is a data-integrity failure, not a skip.
func (a *Account) MarkToMarket(date market.Date, closes map[string]float64) (DailyPerformance, error) {
	if n := len(a.curve); n > 0 && !a.curve[n-1].Date.Before(date) {
		return DailyPerformance{}, fmt.Errorf("mark to market: %s not after last snapshot %s",
			date, a.curve[n-1].Date)
	}

	equity := a.cash
	for symbol, pos := range a.positions {
		price, ok := closes[symbol]
		if !ok {
			return DailyPerformance{}, fmt.Errorf("mark to market %s: no closing price for held symbol %s",
				date, symbol)
		}
		equity += float64(pos.Volume()) * price
	}

	if equity > a.peak {
		a.peak = equity
	}
	drawdown := 0.0
	if a.peak > 0 {
		drawdown = (a.peak - equity) / a.peak
	}

	dailyReturn := 0.0
	if n := len(a.curve); n > 0 && a.curve[n-1].Equity != 0 {
		dailyReturn = equity/a.curve[n-1].Equity - 1
	}

	snap := DailyPerformance{
		Date:             date,
		Cash:             a.cash,
		Equity:           equity,
		DrawdownFromPeak: drawdown,
		DailyReturn:      dailyReturn,
	}
	a.curve = append(a.curve, snap)
	return snap, nil
}
