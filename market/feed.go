package market

import (
	"fmt"
	"sort"
)

// Feed holds a session's bars grouped by trading day. It is built once before
// a backtest starts; the run itself never touches I/O.
type Feed struct {
	days []Date
	bars map[Date]map[string]Bar
}

// NewFeed groups bars by day, validates each one, and sorts the day index
// ascending. Duplicate (day, symbol) pairs are rejected.
func NewFeed(bars []Bar) (*Feed, error) {
	f := &Feed{bars: make(map[Date]map[string]Bar)}

	for _, b := range bars {
		if err := b.Validate(); err != nil {
			return nil, err
		}
		day, ok := f.bars[b.Date]
		if !ok {
			day = make(map[string]Bar)
			f.bars[b.Date] = day
			f.days = append(f.days, b.Date)
		}
		if _, dup := day[b.Symbol]; dup {
			return nil, fmt.Errorf("duplicate bar for %s on %s", b.Symbol, b.Date)
		}
		day[b.Symbol] = b
	}

	sort.Slice(f.days, func(i, j int) bool { return f.days[i] < f.days[j] })
	return f, nil
}

// Days returns the trading days in ascending order.
func (f *Feed) Days() []Date { return f.days }

// Day returns the bar table for one trading day, keyed by symbol.
func (f *Feed) Day(d Date) map[string]Bar { return f.bars[d] }

// Len returns the number of trading days in the feed.
func (f *Feed) Len() int { return len(f.days) }
