package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantbox/equitybt/market"
)

func twoLotPosition() *Position {
	return &Position{
		Symbol: "000001.SZ",
		Lots: []Lot{
			{Volume: 100, CostPrice: 10.0, AcquiredOn: "2024-01-02"},
			{Volume: 200, CostPrice: 12.0, AcquiredOn: "2024-01-03"},
		},
	}
}

func TestAvailableVolumeHonorsCutoff(t *testing.T) {
	t.Parallel()

	p := twoLotPosition()

	assert.Equal(t, int64(300), p.AvailableVolume(""))
	assert.Equal(t, int64(300), p.AvailableVolume("2024-01-04"))
	assert.Equal(t, int64(100), p.AvailableVolume("2024-01-03"))
	assert.Equal(t, int64(0), p.AvailableVolume("2024-01-02"))
}

func TestAvailableVolumeZeroWhenFrozen(t *testing.T) {
	t.Parallel()

	p := twoLotPosition()
	p.Frozen = true
	assert.Equal(t, int64(0), p.AvailableVolume(""))
}

func TestRemoveVolumeFIFOSkipsIneligibleLots(t *testing.T) {
	t.Parallel()

	p := twoLotPosition()

	// Cutoff 2024-01-03 makes only the first lot sellable.
	require.NoError(t, p.removeVolume(100, "2024-01-03"))

	require.Len(t, p.Lots, 1)
	assert.Equal(t, market.Date("2024-01-03"), p.Lots[0].AcquiredOn)
	assert.Equal(t, int64(200), p.Volume())
}

func TestRemoveVolumeSplitsOldestLot(t *testing.T) {
	t.Parallel()

	p := twoLotPosition()
	require.NoError(t, p.removeVolume(50, ""))

	assert.Equal(t, int64(250), p.Volume())
	assert.Equal(t, int64(50), p.Lots[0].Volume)
	assert.Equal(t, market.Date("2024-01-02"), p.Lots[0].AcquiredOn)
}

func TestRemoveVolumeRejectsOversell(t *testing.T) {
	t.Parallel()

	p := twoLotPosition()
	err := p.removeVolume(200, "2024-01-03")
	assert.ErrorContains(t, err, "sellable")
	assert.Equal(t, int64(300), p.Volume())
}

func TestCostPriceWeightedAverage(t *testing.T) {
	t.Parallel()

	p := twoLotPosition()
	// (100*10 + 200*12) / 300
	assert.InDelta(t, 34.0/3.0, p.CostPrice(), 1e-9)

	empty := &Position{Symbol: "000001.SZ"}
	assert.InDelta(t, 0.0, empty.CostPrice(), 1e-9)
	assert.True(t, empty.Empty())
}

func TestHeldSinceOldestLot(t *testing.T) {
	t.Parallel()

	p := twoLotPosition()
	assert.Equal(t, market.Date("2024-01-02"), p.HeldSince())

	require.NoError(t, p.removeVolume(100, "2024-01-03"))
	assert.Equal(t, market.Date("2024-01-03"), p.HeldSince())
}
