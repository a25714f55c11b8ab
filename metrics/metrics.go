// Package metrics derives equity-curve statistics. All functions are pure and
// tolerate curves of length 0 or 1 by returning zero sentinels.
package metrics

import (
	"math"

	"github.com/quantbox/equitybt/account"
)

// DefaultPeriodsPerYear is the trading-day annualization base; volatility and
// Sharpe scale by its square root.
const DefaultPeriodsPerYear = 252

// Summary bundles the standard statistics for a completed or partial curve.
type Summary struct {
	TotalReturn      float64
	AnnualizedReturn float64
	MaxDrawdown      float64
	Volatility       float64
	Sharpe           float64
}

// Compute derives a Summary from the equity curve. periodsPerYear <= 0 falls
// back to DefaultPeriodsPerYear.
func Compute(curve []account.DailyPerformance, periodsPerYear float64) Summary {
	if periodsPerYear <= 0 {
		periodsPerYear = DefaultPeriodsPerYear
	}
	equity := Equities(curve)
	returns := DailyReturns(equity)
	return Summary{
		TotalReturn:      TotalReturn(equity),
		AnnualizedReturn: AnnualizedReturn(equity, periodsPerYear),
		MaxDrawdown:      MaxDrawdown(equity),
		Volatility:       Volatility(returns, periodsPerYear),
		Sharpe:           Sharpe(returns, periodsPerYear),
	}
}

// Equities extracts the equity series from a curve.
func Equities(curve []account.DailyPerformance) []float64 {
	out := make([]float64, len(curve))
	for i, snap := range curve {
		out[i] = snap.Equity
	}
	return out
}

// TotalReturn is the relative change from the first to the last point.
func TotalReturn(equity []float64) float64 {
	if len(equity) < 2 || equity[0] == 0 {
		return 0
	}
	return equity[len(equity)-1]/equity[0] - 1
}

// AnnualizedReturn compounds the total return over periodsPerYear.
func AnnualizedReturn(equity []float64, periodsPerYear float64) float64 {
	total := TotalReturn(equity)
	periods := float64(len(equity))
	if periods <= 1 {
		return total
	}
	return math.Pow(1+total, periodsPerYear/periods) - 1
}

// MaxDrawdown is the largest peak-to-trough relative decline observed,
// returned as a positive fraction.
func MaxDrawdown(equity []float64) float64 {
	var peak, worst float64
	for _, v := range equity {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := (peak - v) / peak; dd > worst {
				worst = dd
			}
		}
	}
	return worst
}

// DailyReturns converts an equity series into day-over-day relative changes.
func DailyReturns(equity []float64) []float64 {
	if len(equity) < 2 {
		return nil
	}
	out := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		if equity[i-1] == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, equity[i]/equity[i-1]-1)
	}
	return out
}

// Volatility is the annualized population standard deviation of the daily
// returns.
func Volatility(returns []float64, periodsPerYear float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))

	return math.Sqrt(variance) * math.Sqrt(periodsPerYear)
}

// Sharpe is the annualized mean daily return over daily volatility, 0 when
// volatility is zero.
func Sharpe(returns []float64, periodsPerYear float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	daily := Volatility(returns, 1)
	if daily == 0 {
		return 0
	}
	return mean / daily * math.Sqrt(periodsPerYear)
}
