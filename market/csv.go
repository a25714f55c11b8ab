package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// csvHeader is the expected column order for daily bar files:
//
//	date,symbol,open,high,low,close,upper_limit,lower_limit,volume,suspended
var csvHeader = []string{
	"date", "symbol", "open", "high", "low", "close",
	"upper_limit", "lower_limit", "volume", "suspended",
}

// LoadCSV reads daily bars from a CSV file. A header row is optional and
// detected by the first column reading "date".
func LoadCSV(path string) ([]Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bars file: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses daily bars from r. See LoadCSV for the column layout.
func ReadCSV(r io.Reader) ([]Bar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var bars []Bar
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return bars, nil
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) == 0 {
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(row[0]), csvHeader[0]) {
			continue
		}

		b, err := parseBarRow(row)
		if err != nil {
			return nil, fmt.Errorf("bars row %d: %w", line, err)
		}
		bars = append(bars, b)
	}
}

func parseBarRow(row []string) (Bar, error) {
	if len(row) < len(csvHeader) {
		return Bar{}, fmt.Errorf("need %d columns (%s), got %d",
			len(csvHeader), strings.Join(csvHeader, ","), len(row))
	}

	date, err := ParseDate(strings.TrimSpace(row[0]))
	if err != nil {
		return Bar{}, err
	}

	b := Bar{
		Symbol: strings.TrimSpace(row[1]),
		Date:   date,
	}

	fields := []struct {
		dst  *float64
		name string
		col  int
	}{
		{&b.Open, "open", 2},
		{&b.High, "high", 3},
		{&b.Low, "low", 4},
		{&b.Close, "close", 5},
		{&b.UpperLimit, "upper_limit", 6},
		{&b.LowerLimit, "lower_limit", 7},
		{&b.Volume, "volume", 8},
	}
	for _, fld := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[fld.col]), 64)
		if err != nil {
			return Bar{}, fmt.Errorf("bad %s %q: %w", fld.name, row[fld.col], err)
		}
		*fld.dst = v
	}

	switch s := strings.ToLower(strings.TrimSpace(row[9])); s {
	case "", "0", "false", "no":
		b.Suspended = false
	case "1", "true", "yes":
		b.Suspended = true
	default:
		return Bar{}, fmt.Errorf("bad suspended flag %q", row[9])
	}

	return b, nil
}
