package market

import (
	"fmt"
	"time"
)

// DateLayout is the canonical trading-day format used across the module.
const DateLayout = "2006-01-02"

// Date is a trading day in ISO format ("2024-01-02"). The ISO layout sorts
// lexicographically, so Dates compare correctly as plain strings and work as
// map keys.
type Date string

// ParseDate validates s against DateLayout.
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("bad date %q: %w", s, err)
	}
	return Date(s), nil
}

// Time returns the midnight UTC timestamp of the trading day.
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

func (d Date) Before(other Date) bool { return d < other }

func (d Date) After(other Date) bool { return d > other }

// DaysBetween returns the number of calendar days from d to other.
func DaysBetween(d, other Date) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}
