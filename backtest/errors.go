package backtest

import (
	"fmt"

	"github.com/quantbox/equitybt/market"
)

// DataError is a session-fatal data-integrity failure: the loop halts rather
// than silently skipping the day.
type DataError struct {
	Date   market.Date
	Symbol string
	Reason string
}

func (e *DataError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("data integrity on %s: %s", e.Date, e.Reason)
	}
	return fmt.Sprintf("data integrity on %s (%s): %s", e.Date, e.Symbol, e.Reason)
}
