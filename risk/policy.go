// Package risk gates trading on portfolio-level thresholds: equity drawdown,
// single-symbol concentration, equity volatility, sector exposure and holding
// duration. Evaluation is stateless and safe for concurrent callers.
package risk

import (
	"fmt"

	"github.com/quantbox/equitybt/account"
	"github.com/quantbox/equitybt/market"
)

// Thresholds is the risk configuration for one session. Volatility, sector
// and holding-day limits are disabled at zero.
type Thresholds struct {
	MaxEquityDrawdown   float64 `json:"max_equity_drawdown" yaml:"max_equity_drawdown"`
	MaxPositionRatio    float64 `json:"max_position_ratio" yaml:"max_position_ratio"`
	MaxEquityVolatility float64 `json:"max_equity_volatility" yaml:"max_equity_volatility"`
	MaxSectorExposure   float64 `json:"max_sector_exposure" yaml:"max_sector_exposure"`
	MaxHoldingDays      int     `json:"max_holding_days" yaml:"max_holding_days"`
}

// Defaults mirrors the standard configuration: 10% drawdown, 30% per-symbol
// concentration, remaining rules off.
func Defaults() Thresholds {
	return Thresholds{
		MaxEquityDrawdown: 0.1,
		MaxPositionRatio:  0.3,
	}
}

// Validate rejects malformed thresholds. Failures are fatal at session start,
// before any day is processed.
func (t Thresholds) Validate() error {
	if t.MaxEquityDrawdown < 0 {
		return fmt.Errorf("max_equity_drawdown must be >= 0, got %v", t.MaxEquityDrawdown)
	}
	if t.MaxPositionRatio < 0 {
		return fmt.Errorf("max_position_ratio must be >= 0, got %v", t.MaxPositionRatio)
	}
	if t.MaxEquityVolatility < 0 {
		return fmt.Errorf("max_equity_volatility must be >= 0, got %v", t.MaxEquityVolatility)
	}
	if t.MaxSectorExposure < 0 {
		return fmt.Errorf("max_sector_exposure must be >= 0, got %v", t.MaxSectorExposure)
	}
	if t.MaxHoldingDays < 0 {
		return fmt.Errorf("max_holding_days must be >= 0, got %v", t.MaxHoldingDays)
	}
	return nil
}

// Exposure is one position's footprint at evaluation time: marked value and
// the acquisition day of its oldest remaining lot.
type Exposure struct {
	Symbol    string
	Value     float64
	HeldSince market.Date
}

// SectorLookup maps a symbol to its industry classification. Empty string
// means unknown; unknown symbols are grouped into one bucket so they cannot
// dodge the sector limit.
type SectorLookup func(symbol string) string

// NoSectors is the lookup to use when no industry mapping is available.
func NoSectors(string) string { return "" }

// Exposures marks the account's positions at the given closing prices. A
// symbol without a close falls back to its weighted-average cost, so an
// evaluation mid-suspension still sees the position.
func Exposures(acct *account.Account, closes map[string]float64) []Exposure {
	positions := acct.Positions()
	out := make([]Exposure, 0, len(positions))
	for _, pos := range positions {
		price, ok := closes[pos.Symbol]
		if !ok {
			price = pos.CostPrice()
		}
		out = append(out, Exposure{
			Symbol:    pos.Symbol,
			Value:     float64(pos.Volume()) * price,
			HeldSince: pos.HeldSince(),
		})
	}
	return out
}
