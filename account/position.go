package account

import (
	"fmt"

	"github.com/quantbox/equitybt/market"
)

// Lot is a parcel of shares acquired by one fill. Lots carry their acquisition
// day so the T+1 rule can tell same-day shares from sellable ones.
type Lot struct {
	Volume     int64
	CostPrice  float64
	AcquiredOn market.Date
}

// Position is one symbol's holding, tracked as FIFO lots.
type Position struct {
	Symbol string
	Lots   []Lot
	Frozen bool
}

// Volume returns the total shares held across all lots.
func (p *Position) Volume() int64 {
	var total int64
	for _, lot := range p.Lots {
		total += lot.Volume
	}
	return total
}

// CostPrice returns the volume-weighted average cost of the holding, 0 when
// the position is empty.
func (p *Position) CostPrice() float64 {
	total := p.Volume()
	if total == 0 {
		return 0
	}
	var cost float64
	for _, lot := range p.Lots {
		cost += lot.CostPrice * float64(lot.Volume)
	}
	return cost / float64(total)
}

// AvailableVolume returns the shares sellable on the given day: lots acquired
// strictly before it. A zero day means no T+1 restriction applies.
func (p *Position) AvailableVolume(before market.Date) int64 {
	if p.Frozen {
		return 0
	}
	if before == "" {
		return p.Volume()
	}
	var total int64
	for _, lot := range p.Lots {
		if lot.AcquiredOn.Before(before) {
			total += lot.Volume
		}
	}
	return total
}

// HeldSince returns the acquisition day of the oldest remaining lot, or the
// zero Date when the position is empty.
func (p *Position) HeldSince() market.Date {
	var oldest market.Date
	for _, lot := range p.Lots {
		if oldest == "" || lot.AcquiredOn.Before(oldest) {
			oldest = lot.AcquiredOn
		}
	}
	return oldest
}

// Empty reports whether the position holds no shares.
func (p *Position) Empty() bool { return p.Volume() == 0 }

func (p *Position) addLot(volume int64, price float64, day market.Date) {
	p.Lots = append(p.Lots, Lot{Volume: volume, CostPrice: price, AcquiredOn: day})
}

// removeVolume takes shares out of the position oldest-lot-first, skipping
// lots not yet eligible under the T+1 cutoff.
func (p *Position) removeVolume(volume int64, before market.Date) error {
	if volume > p.AvailableVolume(before) {
		return fmt.Errorf("position %s: %d shares requested, %d sellable",
			p.Symbol, volume, p.AvailableVolume(before))
	}

	remaining := volume
	kept := p.Lots[:0]
	for _, lot := range p.Lots {
		if remaining <= 0 || (before != "" && !lot.AcquiredOn.Before(before)) {
			kept = append(kept, lot)
			continue
		}
		take := lot.Volume
		if take > remaining {
			take = remaining
		}
		remaining -= take
		if residual := lot.Volume - take; residual > 0 {
			lot.Volume = residual
			kept = append(kept, lot)
		}
	}
	p.Lots = kept
	return nil
}
