// Package journal persists backtest output: fills, the daily equity curve and
// per-run summaries. SQLite and CSV backends share one interface so the
// runner does not care where records land.
package journal

import (
	"time"

	"github.com/quantbox/equitybt/exec"
	"github.com/quantbox/equitybt/metrics"
)

// TradeRecord is one persisted fill.
type TradeRecord struct {
	TradeID     string
	RunID       string
	OrderID     string
	Symbol      string
	Side        string
	Volume      int64
	Price       float64
	Commission  float64
	StampDuty   float64
	TransferFee float64
	Date        string
}

// DailyRecord is one persisted equity-curve point.
type DailyRecord struct {
	RunID            string
	Date             string
	Cash             float64
	Equity           float64
	DrawdownFromPeak float64
	DailyReturn      float64
}

// RunRecord is the summary row written once per backtest session.
type RunRecord struct {
	RunID            string
	Strategy         string
	Start            string
	End              string
	Days             int
	Trades           int
	InitialCash      float64
	FinalEquity      float64
	TotalReturn      float64
	AnnualizedReturn float64
	MaxDrawdown      float64
	Volatility       float64
	Sharpe           float64
	Created          time.Time
}

// Journal records backtest output as it is produced.
type Journal interface {
	RecordTrade(TradeRecord) error
	RecordDaily(DailyRecord) error
	RecordRun(RunRecord) error
	Close() error
}

// NewTradeRecord converts an executed trade for persistence.
func NewTradeRecord(runID string, t exec.Trade) TradeRecord {
	return TradeRecord{
		TradeID:     t.ID,
		RunID:       runID,
		OrderID:     t.OrderID,
		Symbol:      t.Symbol,
		Side:        string(t.Side),
		Volume:      t.Volume,
		Price:       t.Price,
		Commission:  t.Fees.Commission,
		StampDuty:   t.Fees.StampDuty,
		TransferFee: t.Fees.TransferFee,
		Date:        string(t.Date),
	}
}

// NewRunRecord builds the summary row from a session's final metrics.
func NewRunRecord(runID, strategy, start, end string, days, trades int, initialCash, finalEquity float64, m metrics.Summary) RunRecord {
	return RunRecord{
		RunID:            runID,
		Strategy:         strategy,
		Start:            start,
		End:              end,
		Days:             days,
		Trades:           trades,
		InitialCash:      initialCash,
		FinalEquity:      finalEquity,
		TotalReturn:      m.TotalReturn,
		AnnualizedReturn: m.AnnualizedReturn,
		MaxDrawdown:      m.MaxDrawdown,
		Volatility:       m.Volatility,
		Sharpe:           m.Sharpe,
		Created:          time.Now().UTC(),
	}
}

// Nop discards everything. Useful for runs that only need the in-memory
// result.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error { return nil }
func (Nop) RecordDaily(DailyRecord) error { return nil }
func (Nop) RecordRun(RunRecord) error     { return nil }
func (Nop) Close() error                  { return nil }
