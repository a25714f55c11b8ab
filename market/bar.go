package market

import "fmt"

// Bar is one symbol's daily OHLCV record together with the exchange price-limit
// band and suspension flag for that day.
type Bar struct {
	Symbol     string
	Date       Date
	Open       float64
	High       float64
	Low        float64
	Close      float64
	UpperLimit float64
	LowerLimit float64
	Volume     float64
	Suspended  bool
}

// Validate checks the bar for internal consistency. A bar with a broken limit
// band or non-positive prices on a trading day is a data-integrity problem,
// not something matching should paper over.
func (b Bar) Validate() error {
	if b.Symbol == "" {
		return fmt.Errorf("bar %s: empty symbol", b.Date)
	}
	if b.Suspended {
		// Suspended days commonly carry the last close only; prices are not
		// checked beyond the limit band ordering.
		if b.UpperLimit != 0 && b.LowerLimit > b.UpperLimit {
			return fmt.Errorf("bar %s %s: lower limit %.4f above upper limit %.4f",
				b.Symbol, b.Date, b.LowerLimit, b.UpperLimit)
		}
		return nil
	}
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return fmt.Errorf("bar %s %s: non-positive price", b.Symbol, b.Date)
	}
	if b.Low > b.High {
		return fmt.Errorf("bar %s %s: low %.4f above high %.4f", b.Symbol, b.Date, b.Low, b.High)
	}
	if b.LowerLimit <= 0 || b.UpperLimit <= 0 || b.LowerLimit > b.UpperLimit {
		return fmt.Errorf("bar %s %s: inconsistent limit band [%.4f, %.4f]",
			b.Symbol, b.Date, b.LowerLimit, b.UpperLimit)
	}
	return nil
}
