package exec

import (
	"github.com/quantbox/equitybt/fees"
	"github.com/quantbox/equitybt/internal/id"
	"github.com/quantbox/equitybt/market"
)

// Side is the order direction.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Status is the order lifecycle state. Filled, Partial and Cancelled are
// terminal: an order is never retried within or across days.
type Status string

const (
	StatusCreated   Status = "created"
	StatusFilled    Status = "filled"
	StatusPartial   Status = "partial"
	StatusCancelled Status = "cancelled"
)

// Rejection reasons recorded on cancelled orders. These are expected,
// per-order outcomes, never session errors.
const (
	ReasonEmptyOrder       = "empty order"
	ReasonNoMarketData     = "no market data"
	ReasonSuspended        = "suspended"
	ReasonTPlusOne         = "T+1 violation"
	ReasonNoHolding        = "insufficient held volume"
	ReasonFrozen           = "position frozen"
	ReasonPriceLimit       = "price-limit blocked"
	ReasonSubLot           = "below round lot"
	ReasonInsufficientCash = "insufficient cash"
)

// Order is one day's instruction from the signal source. The matching engine
// owns all state transitions; a terminal order is never touched again.
type Order struct {
	ID              string
	Symbol          string
	Side            Side
	RequestedVolume int64
	SignalPrice     float64

	Status       Status
	Reason       string
	FilledVolume int64
	FilledAmount float64
}

// NewOrder creates an order in the created state with a fresh time-sortable
// ID. IDs assigned in submission sequence sort ascending, which is the
// deterministic tie-break for same-day matching.
func NewOrder(symbol string, side Side, volume int64, price float64) *Order {
	return &Order{
		ID:              id.New(),
		Symbol:          symbol,
		Side:            side,
		RequestedVolume: volume,
		SignalPrice:     price,
		Status:          StatusCreated,
	}
}

func (o *Order) reject(reason string) {
	o.Status = StatusCancelled
	o.Reason = reason
}

// Terminal reports whether the order reached a final state.
func (o *Order) Terminal() bool {
	return o.Status == StatusFilled || o.Status == StatusPartial || o.Status == StatusCancelled
}

// Trade is the immutable record of one fill.
type Trade struct {
	ID      string
	OrderID string
	Symbol  string
	Side    Side
	Volume  int64
	Price   float64
	Fees    fees.Breakdown
	Date    market.Date
}
