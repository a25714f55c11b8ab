package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantbox/equitybt/fees"
)

func TestApplyFillBuy(t *testing.T) {
	t.Parallel()

	a := New(1_000_000)
	breakdown := fees.Default().Buy(100_000)

	err := a.ApplyFill(Fill{
		OrderID: "o1",
		Symbol:  "000001.SZ",
		Volume:  10_000,
		Price:   10.0,
		Fees:    breakdown,
		Date:    "2024-01-02",
	})
	require.NoError(t, err)

	assert.InDelta(t, 1_000_000-100_000-breakdown.Total(), a.Cash(), 1e-9)

	pos := a.Position("000001.SZ")
	require.NotNil(t, pos)
	assert.Equal(t, int64(10_000), pos.Volume())
	assert.InDelta(t, 10.0, pos.CostPrice(), 1e-9)
}

func TestApplyFillBuyWeightedAverageCost(t *testing.T) {
	t.Parallel()

	a := New(1_000_000)

	require.NoError(t, a.ApplyFill(Fill{OrderID: "o1", Symbol: "000001.SZ", Volume: 100, Price: 10.0, Date: "2024-01-02"}))
	require.NoError(t, a.ApplyFill(Fill{OrderID: "o2", Symbol: "000001.SZ", Volume: 100, Price: 12.0, Date: "2024-01-03"}))

	pos := a.Position("000001.SZ")
	require.NotNil(t, pos)
	assert.Equal(t, int64(200), pos.Volume())
	assert.InDelta(t, 11.0, pos.CostPrice(), 1e-9)
}

func TestApplyFillBuyRejectsOverdraft(t *testing.T) {
	t.Parallel()

	a := New(1000)
	err := a.ApplyFill(Fill{OrderID: "o1", Symbol: "000001.SZ", Volume: 1000, Price: 10.0, Date: "2024-01-02"})
	assert.ErrorContains(t, err, "exceeds cash")
	assert.InDelta(t, 1000, a.Cash(), 1e-9)
}

func TestApplyFillSellRemovesEmptyPosition(t *testing.T) {
	t.Parallel()

	a := New(10_000)
	require.NoError(t, a.ApplyFill(Fill{OrderID: "o1", Symbol: "000001.SZ", Volume: 100, Price: 10.0, Date: "2024-01-02"}))

	breakdown := fees.Default().Sell(1100)
	err := a.ApplyFill(Fill{
		OrderID:    "o2",
		Symbol:     "000001.SZ",
		Sell:       true,
		Volume:     100,
		Price:      11.0,
		Fees:       breakdown,
		Date:       "2024-01-03",
		SellBefore: "2024-01-03",
	})
	require.NoError(t, err)

	assert.Nil(t, a.Position("000001.SZ"))
	assert.InDelta(t, 10_000-1000+1100-breakdown.Total(), a.Cash(), 1e-9)
}

func TestApplyFillSellHonorsTPlusOneCutoff(t *testing.T) {
	t.Parallel()

	a := New(10_000)
	require.NoError(t, a.ApplyFill(Fill{OrderID: "o1", Symbol: "000001.SZ", Volume: 100, Price: 10.0, Date: "2024-01-02"}))

	// Same-day cutoff leaves no sellable lots.
	err := a.ApplyFill(Fill{
		OrderID:    "o2",
		Symbol:     "000001.SZ",
		Sell:       true,
		Volume:     100,
		Price:      11.0,
		Date:       "2024-01-02",
		SellBefore: "2024-01-02",
	})
	assert.Error(t, err)
	assert.Equal(t, int64(100), a.Position("000001.SZ").Volume())
}

func TestMarkToMarketSnapshots(t *testing.T) {
	t.Parallel()

	a := New(100_000)

	snap, err := a.MarkToMarket("2024-01-02", nil)
	require.NoError(t, err)
	assert.InDelta(t, 100_000, snap.Equity, 1e-9)
	assert.InDelta(t, 0.0, snap.DrawdownFromPeak, 1e-9)
	assert.InDelta(t, 0.0, snap.DailyReturn, 1e-9)

	require.NoError(t, a.ApplyFill(Fill{OrderID: "o1", Symbol: "000001.SZ", Volume: 1000, Price: 10.0, Date: "2024-01-03"}))

	snap, err = a.MarkToMarket("2024-01-03", map[string]float64{"000001.SZ": 11.0})
	require.NoError(t, err)
	assert.InDelta(t, 90_000+11_000, snap.Equity, 1e-9)
	assert.InDelta(t, 0.01, snap.DailyReturn, 1e-9)
	assert.InDelta(t, 0.0, snap.DrawdownFromPeak, 1e-9)

	snap, err = a.MarkToMarket("2024-01-04", map[string]float64{"000001.SZ": 9.0})
	require.NoError(t, err)
	assert.InDelta(t, 90_000+9_000, snap.Equity, 1e-9)
	assert.InDelta(t, (101_000.0-99_000.0)/101_000.0, snap.DrawdownFromPeak, 1e-9)
	assert.Less(t, snap.DailyReturn, 0.0)

	require.Len(t, a.Curve(), 3)
	assert.InDelta(t, 99_000, a.Equity(), 1e-9)
}

func TestMarkToMarketRequiresStrictlyIncreasingDates(t *testing.T) {
	t.Parallel()

	a := New(100_000)
	_, err := a.MarkToMarket("2024-01-02", nil)
	require.NoError(t, err)

	_, err = a.MarkToMarket("2024-01-02", nil)
	assert.ErrorContains(t, err, "not after last snapshot")
}

func TestMarkToMarketMissingCloseIsFatal(t *testing.T) {
	t.Parallel()

	a := New(100_000)
	require.NoError(t, a.ApplyFill(Fill{OrderID: "o1", Symbol: "000001.SZ", Volume: 100, Price: 10.0, Date: "2024-01-02"}))

	_, err := a.MarkToMarket("2024-01-02", map[string]float64{})
	assert.ErrorContains(t, err, "no closing price")
}
