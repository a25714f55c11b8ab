package signal

import (
	"sort"

	"github.com/quantbox/equitybt/account"
	"github.com/quantbox/equitybt/exec"
	"github.com/quantbox/equitybt/indicators"
	"github.com/quantbox/equitybt/market"
)

// MACrossConfig parameterizes the demo moving-average crossover source.
type MACrossConfig struct {
	FastPeriod int     `json:"fast_period" yaml:"fast_period"`
	SlowPeriod int     `json:"slow_period" yaml:"slow_period"`
	BudgetPct  float64 `json:"budget_pct" yaml:"budget_pct"` // equity fraction per entry
	LotSize    int64   `json:"lot_size" yaml:"lot_size"`
}

// MACrossDefaults returns a 5/20 crossover spending 20% of equity per entry.
func MACrossDefaults() MACrossConfig {
	return MACrossConfig{
		FastPeriod: 5,
		SlowPeriod: 20,
		BudgetPct:  0.2,
		LotSize:    100,
	}
}

// MACross is a simple built-in strategy: buy a symbol when its fast SMA
// crosses above the slow SMA, sell the whole position on the opposite cross.
// It exists so backtests can run without an external signal file; it is not a
// trading recommendation.
type MACross struct {
	cfg MACrossConfig

	state map[string]*maCrossState
}

type maCrossState struct {
	fast *indicators.SimpleMA
	slow *indicators.SimpleMA

	lastDiff     float64
	haveLastDiff bool
}

func NewMACross(cfg MACrossConfig) *MACross {
	if cfg.FastPeriod <= 0 || cfg.SlowPeriod <= cfg.FastPeriod {
		cfg = MACrossDefaults()
	}
	if cfg.LotSize <= 0 {
		cfg.LotSize = 100
	}
	return &MACross{
		cfg:   cfg,
		state: make(map[string]*maCrossState),
	}
}

func (s *MACross) Name() string { return "ma-cross" }

func (s *MACross) Signals(day market.Date, bars map[string]market.Bar, acct *account.Account) []Signal {
	symbols := make([]string, 0, len(bars))
	for symbol := range bars {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	var out []Signal
	for _, symbol := range symbols {
		bar := bars[symbol]
		if bar.Suspended {
			continue
		}

		st := s.state[symbol]
		if st == nil {
			st = &maCrossState{
				fast: indicators.NewMA(s.cfg.FastPeriod),
				slow: indicators.NewMA(s.cfg.SlowPeriod),
			}
			s.state[symbol] = st
		}

		st.fast.Update(bar.Close)
		st.slow.Update(bar.Close)
		if !st.fast.Ready() || !st.slow.Ready() {
			continue
		}

		diff := st.fast.Value() - st.slow.Value()
		crossedUp := st.haveLastDiff && st.lastDiff <= 0 && diff > 0
		crossedDown := st.haveLastDiff && st.lastDiff >= 0 && diff < 0
		st.lastDiff = diff
		st.haveLastDiff = true

		pos := acct.Position(symbol)
		switch {
		case crossedUp && pos == nil:
			volume := s.entryVolume(acct.Equity(), bar.Close)
			if volume > 0 {
				out = append(out, Signal{Symbol: symbol, Side: exec.Buy, Volume: volume, Price: bar.Close})
			}
		case crossedDown && pos != nil:
			out = append(out, Signal{Symbol: symbol, Side: exec.Sell, Volume: pos.Volume(), Price: bar.Close})
		}
	}
	return out
}

func (s *MACross) entryVolume(equity, price float64) int64 {
	if price <= 0 {
		return 0
	}
	volume := int64(equity * s.cfg.BudgetPct / price)
	return volume - volume%s.cfg.LotSize
}
