package signal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/quantbox/equitybt/account"
	"github.com/quantbox/equitybt/exec"
	"github.com/quantbox/equitybt/market"
)

// CSVSource replays pre-computed signals from a file with rows
//
//	date,symbol,side,volume,price
//
// This is how exported LLM decision plans are fed into a backtest.
type CSVSource struct {
	byDay map[market.Date][]Signal
}

// LoadCSV reads a signal file. A header row is optional and detected by the
// first column reading "date".
func LoadCSV(path string) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open signals file: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses signals from r. See LoadCSV for the column layout.
func ReadCSV(r io.Reader) (*CSVSource, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	src := &CSVSource{byDay: make(map[market.Date][]Signal)}
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return src, nil
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) == 0 {
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "date") {
			continue
		}
		if len(row) < 5 {
			return nil, fmt.Errorf("signals row %d: need 5 columns date,symbol,side,volume,price, got %d", line, len(row))
		}

		day, err := market.ParseDate(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("signals row %d: %w", line, err)
		}

		var side exec.Side
		switch s := strings.ToLower(strings.TrimSpace(row[2])); s {
		case "buy":
			side = exec.Buy
		case "sell":
			side = exec.Sell
		default:
			return nil, fmt.Errorf("signals row %d: bad side %q", line, row[2])
		}

		volume, err := strconv.ParseInt(strings.TrimSpace(row[3]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("signals row %d: bad volume %q: %w", line, row[3], err)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
		if err != nil {
			return nil, fmt.Errorf("signals row %d: bad price %q: %w", line, row[4], err)
		}

		src.byDay[day] = append(src.byDay[day], Signal{
			Symbol: strings.TrimSpace(row[1]),
			Side:   side,
			Volume: volume,
			Price:  price,
		})
	}
}

func (s *CSVSource) Name() string { return "csv" }

func (s *CSVSource) Signals(day market.Date, _ map[string]market.Bar, _ *account.Account) []Signal {
	return s.byDay[day]
}
