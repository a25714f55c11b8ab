package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantbox/equitybt/account"
	"github.com/quantbox/equitybt/exec"
	"github.com/quantbox/equitybt/market"
)

func crossBars(symbol string, close float64) map[string]market.Bar {
	return map[string]market.Bar{
		symbol: {
			Symbol:     symbol,
			Close:      close,
			UpperLimit: close * 1.1,
			LowerLimit: close * 0.9,
		},
	}
}

func feedCloses(t *testing.T, s *MACross, acct *account.Account, symbol string, closes ...float64) []Signal {
	t.Helper()
	var last []Signal
	for _, c := range closes {
		last = s.Signals("2024-01-02", crossBars(symbol, c), acct)
	}
	return last
}

func TestMACrossBuysOnCrossUp(t *testing.T) {
	t.Parallel()

	s := NewMACross(MACrossConfig{FastPeriod: 2, SlowPeriod: 3, BudgetPct: 0.2, LotSize: 100})
	acct := account.New(100_000)

	signals := feedCloses(t, s, acct, "000001.SZ", 10, 10, 10, 13)

	require.Len(t, signals, 1)
	sig := signals[0]
	assert.Equal(t, exec.Buy, sig.Side)
	// 100,000 * 0.2 / 13 = 1538, rounded down to the lot.
	assert.Equal(t, int64(1500), sig.Volume)
	assert.InDelta(t, 13.0, sig.Price, 1e-9)
}

func TestMACrossSellsPositionOnCrossDown(t *testing.T) {
	t.Parallel()

	s := NewMACross(MACrossConfig{FastPeriod: 2, SlowPeriod: 3, BudgetPct: 0.2, LotSize: 100})
	acct := account.New(100_000)
	require.NoError(t, acct.ApplyFill(account.Fill{
		OrderID: "o1", Symbol: "000001.SZ", Volume: 1500, Price: 13.0, Date: "2024-01-01",
	}))

	signals := feedCloses(t, s, acct, "000001.SZ", 10, 10, 10, 13, 6)

	require.Len(t, signals, 1)
	assert.Equal(t, exec.Sell, signals[0].Side)
	assert.Equal(t, int64(1500), signals[0].Volume)
}

func TestMACrossNoSignalBeforeWarmup(t *testing.T) {
	t.Parallel()

	s := NewMACross(MACrossConfig{FastPeriod: 2, SlowPeriod: 3, BudgetPct: 0.2, LotSize: 100})
	acct := account.New(100_000)

	assert.Empty(t, feedCloses(t, s, acct, "000001.SZ", 10, 10))
}

func TestMACrossSkipsSuspendedBars(t *testing.T) {
	t.Parallel()

	s := NewMACross(MACrossDefaults())
	acct := account.New(100_000)

	bars := crossBars("000001.SZ", 10)
	bar := bars["000001.SZ"]
	bar.Suspended = true
	bars["000001.SZ"] = bar

	assert.Empty(t, s.Signals("2024-01-02", bars, acct))
}

func TestMACrossConfigFallback(t *testing.T) {
	t.Parallel()

	// slow <= fast is nonsense: fall back to the defaults.
	s := NewMACross(MACrossConfig{FastPeriod: 20, SlowPeriod: 5})
	assert.Equal(t, "ma-cross", s.Name())
	assert.Equal(t, MACrossDefaults(), s.cfg)
}
