package risk

import (
	"fmt"
	"sort"
	"time"

	"github.com/quantbox/equitybt/account"
	"github.com/quantbox/equitybt/market"
	"github.com/quantbox/equitybt/metrics"
)

// Violation codes.
const (
	CodeDrawdown      = "MAX_DRAWDOWN"
	CodeConcentration = "POSITION_CONCENTRATION"
	CodeVolatility    = "MAX_VOLATILITY"
	CodeSector        = "SECTOR_CONCENTRATION"
	CodeStaleHolding  = "STALE_HOLDING"
)

// Violation is one triggered rule, carrying enough detail for an operator to
// act without re-deriving the computation.
type Violation struct {
	Code     string
	Symbol   string // offending symbol or sector, empty for portfolio rules
	Measured float64
	Limit    float64
	Msg      string
}

// Result is the outcome of one evaluation. It is produced fresh per call and
// never persisted on the account.
type Result struct {
	Passed      bool
	Violations  []Violation
	EvaluatedAt time.Time
}

// Reasons returns the violation messages in evaluation order.
func (r Result) Reasons() []string {
	out := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		out[i] = v.Msg
	}
	return out
}

func (r *Result) add(v Violation) {
	r.Violations = append(r.Violations, v)
	r.Passed = false
}

// Evaluate runs every applicable rule independently — no short-circuiting —
// against the latest snapshot. Passed is true only when no rule triggers.
func Evaluate(t Thresholds, curve []account.DailyPerformance, exposures []Exposure, sectors SectorLookup) Result {
	res := Result{Passed: true, EvaluatedAt: time.Now().UTC()}
	if sectors == nil {
		sectors = NoSectors
	}
	if len(curve) == 0 {
		return res
	}
	latest := curve[len(curve)-1]

	// Drawdown from the running equity peak.
	if latest.DrawdownFromPeak > t.MaxEquityDrawdown {
		res.add(Violation{
			Code:     CodeDrawdown,
			Measured: latest.DrawdownFromPeak,
			Limit:    t.MaxEquityDrawdown,
			Msg: fmt.Sprintf("drawdown %.2f%% exceeds limit %.2f%%",
				100*latest.DrawdownFromPeak, 100*t.MaxEquityDrawdown),
		})
	}

	// Single-symbol concentration.
	if latest.Equity > 0 {
		for _, exp := range exposures {
			ratio := exp.Value / latest.Equity
			if ratio > t.MaxPositionRatio {
				res.add(Violation{
					Code:     CodeConcentration,
					Symbol:   exp.Symbol,
					Measured: ratio,
					Limit:    t.MaxPositionRatio,
					Msg: fmt.Sprintf("%s holds %.2f%% of equity, limit %.2f%%",
						exp.Symbol, 100*ratio, 100*t.MaxPositionRatio),
				})
			}
		}
	}

	// Trailing equity volatility, annualized. Disabled at zero.
	if t.MaxEquityVolatility > 0 {
		vol := metrics.Volatility(metrics.DailyReturns(metrics.Equities(curve)), metrics.DefaultPeriodsPerYear)
		if vol > t.MaxEquityVolatility {
			res.add(Violation{
				Code:     CodeVolatility,
				Measured: vol,
				Limit:    t.MaxEquityVolatility,
				Msg: fmt.Sprintf("equity volatility %.2f%% exceeds limit %.2f%%",
					100*vol, 100*t.MaxEquityVolatility),
			})
		}
	}

	// Sector concentration. Disabled at zero.
	if t.MaxSectorExposure > 0 && latest.Equity > 0 {
		bySector := make(map[string]float64)
		for _, exp := range exposures {
			sector := sectors(exp.Symbol)
			if sector == "" {
				sector = "unknown"
			}
			bySector[sector] += exp.Value
		}
		names := make([]string, 0, len(bySector))
		for name := range bySector {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			ratio := bySector[name] / latest.Equity
			if ratio > t.MaxSectorExposure {
				res.add(Violation{
					Code:     CodeSector,
					Symbol:   name,
					Measured: ratio,
					Limit:    t.MaxSectorExposure,
					Msg: fmt.Sprintf("sector %s holds %.2f%% of equity, limit %.2f%%",
						name, 100*ratio, 100*t.MaxSectorExposure),
				})
			}
		}
	}

	// Holding duration. Disabled at zero.
	if t.MaxHoldingDays > 0 {
		for _, exp := range exposures {
			if exp.HeldSince == "" {
				continue
			}
			held := market.DaysBetween(exp.HeldSince, latest.Date)
			if held > t.MaxHoldingDays {
				res.add(Violation{
					Code:     CodeStaleHolding,
					Symbol:   exp.Symbol,
					Measured: float64(held),
					Limit:    float64(t.MaxHoldingDays),
					Msg: fmt.Sprintf("%s held %d days without exit, limit %d",
						exp.Symbol, held, t.MaxHoldingDays),
				})
			}
		}
	}

	return res
}
