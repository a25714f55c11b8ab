// Package exec converts one day's orders into fills under A-share market
// microstructure rules: T+1 settlement, daily price limits, suspensions and
// round-lot sizing.
package exec

import (
	"fmt"
	"sort"

	"github.com/quantbox/equitybt/account"
	"github.com/quantbox/equitybt/fees"
	"github.com/quantbox/equitybt/internal/id"
	"github.com/quantbox/equitybt/market"
)

// Config carries the microstructure parameters for one session.
type Config struct {
	LotSize          int64
	Fees             fees.Schedule
	AllowSameDaySell bool
}

// DefaultConfig returns the standard A-share setup: 100-share lots, retail
// fees, strict T+1.
func DefaultConfig() Config {
	return Config{
		LotSize: 100,
		Fees:    fees.Default(),
	}
}

// Validate rejects configurations that would corrupt matching. Called once at
// session start; failures are fatal before any day is processed.
func (c Config) Validate() error {
	if c.LotSize <= 0 {
		return fmt.Errorf("lot size must be positive, got %d", c.LotSize)
	}
	return c.Fees.Validate()
}

// Engine matches one day's orders against that day's bars.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// ExecuteDay runs every order through the day's matching rules, applying
// fills to the account as they happen. Orders are processed in submission
// sequence with ID ascending as the deterministic tie-break. Rejections are
// terminal for the day and recorded on the order; the returned error is
// reserved for ledger inconsistencies, which abort the session.
func (e *Engine) ExecuteDay(acct *account.Account, orders []*Order, bars map[string]market.Bar, day market.Date) ([]Trade, error) {
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })

	var trades []Trade
	for _, o := range orders {
		if o.Status != StatusCreated {
			continue
		}
		t, err := e.matchOrder(acct, o, bars, day)
		if err != nil {
			return trades, err
		}
		if t != nil {
			trades = append(trades, *t)
		}
	}
	return trades, nil
}

func (e *Engine) matchOrder(acct *account.Account, o *Order, bars map[string]market.Bar, day market.Date) (*Trade, error) {
	if o.RequestedVolume <= 0 {
		o.reject(ReasonEmptyOrder)
		return nil, nil
	}

	bar, ok := bars[o.Symbol]
	if !ok {
		o.reject(ReasonNoMarketData)
		return nil, nil
	}
	if bar.Suspended {
		o.reject(ReasonSuspended)
		return nil, nil
	}

	volume := o.RequestedVolume
	sellBefore := market.Date("")
	sellOut := false

	if o.Side == Sell {
		pos := acct.Position(o.Symbol)
		if pos == nil || pos.Volume() == 0 {
			o.reject(ReasonNoHolding)
			return nil, nil
		}
		if pos.Frozen {
			o.reject(ReasonFrozen)
			return nil, nil
		}
		if !e.cfg.AllowSameDaySell {
			sellBefore = day
		}
		available := pos.AvailableVolume(sellBefore)
		if available == 0 {
			// Shares exist but every lot was bought today.
			o.reject(ReasonTPlusOne)
			return nil, nil
		}
		if volume > available {
			volume = available
		}
		sellOut = volume == pos.Volume()
	}

	price, ok := e.fillPrice(o.SignalPrice, bar)
	if !ok {
		o.reject(ReasonPriceLimit)
		return nil, nil
	}

	// Round down to the lot size. Selling out an entire position is exempt so
	// an odd remainder can always be liquidated.
	if !sellOut {
		volume -= volume % e.cfg.LotSize
		if volume == 0 {
			o.reject(ReasonSubLot)
			return nil, nil
		}
	}

	notional := price * float64(volume)
	var breakdown fees.Breakdown
	if o.Side == Sell {
		breakdown = e.cfg.Fees.Sell(notional)
	} else {
		breakdown = e.cfg.Fees.Buy(notional)
		if notional+breakdown.Total() > acct.Cash() {
			o.reject(ReasonInsufficientCash)
			return nil, nil
		}
	}

	fill := account.Fill{
		OrderID:    o.ID,
		Symbol:     o.Symbol,
		Sell:       o.Side == Sell,
		Volume:     volume,
		Price:      price,
		Fees:       breakdown,
		Date:       day,
		SellBefore: sellBefore,
	}
	if err := acct.ApplyFill(fill); err != nil {
		return nil, fmt.Errorf("matching %s on %s: %w", o.Symbol, day, err)
	}

	o.FilledVolume = volume
	o.FilledAmount = notional
	if volume == o.RequestedVolume {
		o.Status = StatusFilled
	} else {
		o.Status = StatusPartial
	}

	return &Trade{
		ID:      id.New(),
		OrderID: o.ID,
		Symbol:  o.Symbol,
		Side:    o.Side,
		Volume:  volume,
		Price:   price,
		Fees:    breakdown,
		Date:    day,
	}, nil
}

// fillPrice validates the signal price against the day's limit band. A signal
// beyond a limit fills at the limit only when the market actually touched it;
// otherwise the order cannot trade that day.
func (e *Engine) fillPrice(signal float64, bar market.Bar) (float64, bool) {
	switch {
	case signal > bar.UpperLimit:
		if bar.High >= bar.UpperLimit {
			return bar.UpperLimit, true
		}
		return 0, false
	case signal < bar.LowerLimit:
		if bar.Low <= bar.LowerLimit {
			return bar.LowerLimit, true
		}
		return 0, false
	default:
		return signal, true
	}
}
