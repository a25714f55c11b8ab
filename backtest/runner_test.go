package backtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantbox/equitybt/account"
	"github.com/quantbox/equitybt/exec"
	"github.com/quantbox/equitybt/market"
	"github.com/quantbox/equitybt/signal"
)

func testConfig() Config {
	return Config{
		InitialCash: 1_000_000,
		Execution:   exec.DefaultConfig(),
	}
}

func bar(symbol string, date market.Date, close float64) market.Bar {
	return market.Bar{
		Symbol:     symbol,
		Date:       date,
		Open:       close,
		High:       close * 1.02,
		Low:        close * 0.98,
		Close:      close,
		UpperLimit: close * 1.1,
		LowerLimit: close * 0.9,
		Volume:     1_000_000,
	}
}

func threeDayFeed(t *testing.T) *market.Feed {
	t.Helper()
	feed, err := market.NewFeed([]market.Bar{
		bar("000001.SZ", "2024-01-02", 10.0),
		bar("000001.SZ", "2024-01-03", 10.5),
		bar("000001.SZ", "2024-01-04", 11.0),
	})
	require.NoError(t, err)
	return feed
}

// oneShot buys on the first day it sees and sells everything on the second.
func oneShot(buyVolume int64) signal.Source {
	return signal.Func{
		SourceName: "one-shot",
		Fn: func(day market.Date, bars map[string]market.Bar, acct *account.Account) []signal.Signal {
			b := bars["000001.SZ"]
			if pos := acct.Position("000001.SZ"); pos != nil {
				return []signal.Signal{{Symbol: "000001.SZ", Side: exec.Sell, Volume: pos.Volume(), Price: b.Close}}
			}
			if len(acct.Curve()) == 0 {
				return []signal.Signal{{Symbol: "000001.SZ", Side: exec.Buy, Volume: buyVolume, Price: b.Close}}
			}
			return nil
		},
	}
}

func TestRunProducesOneSnapshotPerDay(t *testing.T) {
	t.Parallel()

	r, err := NewRunner(testConfig(), nil, nil)
	require.NoError(t, err)

	res, err := r.Run(context.Background(), threeDayFeed(t), oneShot(1000))
	require.NoError(t, err)

	require.Len(t, res.Curve, 3)
	assert.Equal(t, market.Date("2024-01-02"), res.Curve[0].Date)
	assert.Equal(t, market.Date("2024-01-04"), res.Curve[2].Date)
	assert.NotEmpty(t, res.RunID)
}

func TestRunAppliesTPlusOne(t *testing.T) {
	t.Parallel()

	r, err := NewRunner(testConfig(), nil, nil)
	require.NoError(t, err)

	res, err := r.Run(context.Background(), threeDayFeed(t), oneShot(1000))
	require.NoError(t, err)

	// Day 1 buy fills, day 2 sell fills; the position is flat from day 2 on.
	require.Len(t, res.Trades, 2)
	assert.Equal(t, exec.Buy, res.Trades[0].Side)
	assert.Equal(t, market.Date("2024-01-02"), res.Trades[0].Date)
	assert.Equal(t, exec.Sell, res.Trades[1].Side)
	assert.Equal(t, market.Date("2024-01-03"), res.Trades[1].Date)
	assert.Nil(t, res.Account.Position("000001.SZ"))
}

func TestRunIsDeterministic(t *testing.T) {
	t.Parallel()

	run := func() []account.DailyPerformance {
		r, err := NewRunner(testConfig(), nil, nil)
		require.NoError(t, err)
		res, err := r.Run(context.Background(), threeDayFeed(t), oneShot(1000))
		require.NoError(t, err)
		return res.Curve
	}

	first := run()
	second := run()
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Equity, second[i].Equity)
		assert.Equal(t, first[i].Cash, second[i].Cash)
	}
}

func TestRunHaltsOnMissingHeldBar(t *testing.T) {
	t.Parallel()

	feed, err := market.NewFeed([]market.Bar{
		bar("000001.SZ", "2024-01-02", 10.0),
		bar("600000.SH", "2024-01-03", 20.0), // held symbol vanishes
	})
	require.NoError(t, err)

	r, err := NewRunner(testConfig(), nil, nil)
	require.NoError(t, err)

	buyOnce := signal.Func{
		SourceName: "buy-once",
		Fn: func(day market.Date, bars map[string]market.Bar, acct *account.Account) []signal.Signal {
			if b, ok := bars["000001.SZ"]; ok && acct.Position("000001.SZ") == nil {
				return []signal.Signal{{Symbol: "000001.SZ", Side: exec.Buy, Volume: 1000, Price: b.Close}}
			}
			return nil
		},
	}

	_, err = r.Run(context.Background(), feed, buyOnce)
	var dataErr *DataError
	require.ErrorAs(t, err, &dataErr)
	assert.Equal(t, market.Date("2024-01-03"), dataErr.Date)
	assert.Equal(t, "000001.SZ", dataErr.Symbol)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	r, err := NewRunner(testConfig(), nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Run(ctx, threeDayFeed(t), oneShot(1000))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunComputesMetrics(t *testing.T) {
	t.Parallel()

	r, err := NewRunner(testConfig(), nil, nil)
	require.NoError(t, err)

	// Hold cash only: flat curve, zero everything.
	idle := signal.Func{
		SourceName: "idle",
		Fn: func(market.Date, map[string]market.Bar, *account.Account) []signal.Signal {
			return nil
		},
	}
	res, err := r.Run(context.Background(), threeDayFeed(t), idle)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, res.Metrics.TotalReturn, 1e-9)
	assert.InDelta(t, 0.0, res.Metrics.MaxDrawdown, 1e-9)
	assert.InDelta(t, 1_000_000, res.Account.Equity(), 1e-9)
}

func TestNewRunnerRejectsBadConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.InitialCash = 0
	_, err := NewRunner(cfg, nil, nil)
	assert.ErrorContains(t, err, "initial cash")
}
