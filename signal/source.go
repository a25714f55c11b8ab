// Package signal defines the boundary to the strategy that decides what to
// trade. Sources may be LLM-generated plans replayed from file or plain
// rule-based strategies; the backtest core performs no validation of where a
// day's signals came from.
package signal

import (
	"github.com/quantbox/equitybt/account"
	"github.com/quantbox/equitybt/exec"
	"github.com/quantbox/equitybt/market"
)

// Signal is one target order for a trading day.
type Signal struct {
	Symbol string
	Side   exec.Side
	Volume int64
	Price  float64
}

// Source produces each day's target orders. Signals is called once per
// trading day, after the day's bars are materialized and before matching.
// The account is a read-only view of the prior day's settled state.
type Source interface {
	Name() string
	Signals(day market.Date, bars map[string]market.Bar, acct *account.Account) []Signal
}

// Func adapts a plain function to a Source.
type Func struct {
	SourceName string
	Fn         func(day market.Date, bars map[string]market.Bar, acct *account.Account) []Signal
}

func (f Func) Name() string { return f.SourceName }

func (f Func) Signals(day market.Date, bars map[string]market.Bar, acct *account.Account) []Signal {
	return f.Fn(day, bars, acct)
}
