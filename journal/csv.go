package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	trades *csv.Writer
	daily  *csv.Writer
	runs   *csv.Writer

	tf, df, rf *os.File
}

// NewCSV writes trades, daily equity and run summaries to three CSV files,
// creating each with a header row.
func NewCSV(tradesPath, dailyPath, runsPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	df, err := os.Create(dailyPath)
	if err != nil {
		tf.Close()
		return nil, err
	}
	rf, err := os.Create(runsPath)
	if err != nil {
		tf.Close()
		df.Close()
		return nil, err
	}

	j := &CSVJournal{
		trades: csv.NewWriter(tf),
		daily:  csv.NewWriter(df),
		runs:   csv.NewWriter(rf),
		tf:     tf,
		df:     df,
		rf:     rf,
	}

	headers := []struct {
		w    *csv.Writer
		cols []string
	}{
		{j.trades, []string{"trade_id", "run_id", "order_id", "symbol", "side", "volume", "price", "commission", "stamp_duty", "transfer_fee", "date"}},
		{j.daily, []string{"run_id", "date", "cash", "equity", "drawdown_from_peak", "daily_return"}},
		{j.runs, []string{"run_id", "strategy", "start_date", "end_date", "days", "trades", "initial_cash", "final_equity", "total_return", "annualized_return", "max_drawdown", "volatility", "sharpe", "created"}},
	}
	for _, h := range headers {
		if err := h.w.Write(h.cols); err != nil {
			j.Close()
			return nil, err
		}
		h.w.Flush()
		if err := h.w.Error(); err != nil {
			j.Close()
			return nil, err
		}
	}

	return j, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	j.trades.Write([]string{
		t.TradeID,
		t.RunID,
		t.OrderID,
		t.Symbol,
		t.Side,
		strconv.FormatInt(t.Volume, 10),
		formatFloat(t.Price),
		formatFloat(t.Commission),
		formatFloat(t.StampDuty),
		formatFloat(t.TransferFee),
		t.Date,
	})
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordDaily(d DailyRecord) error {
	j.daily.Write([]string{
		d.RunID,
		d.Date,
		formatFloat(d.Cash),
		formatFloat(d.Equity),
		formatFloat(d.DrawdownFromPeak),
		formatFloat(d.DailyReturn),
	})
	j.daily.Flush()
	return j.daily.Error()
}

func (j *CSVJournal) RecordRun(r RunRecord) error {
	j.runs.Write([]string{
		r.RunID,
		r.Strategy,
		r.Start,
		r.End,
		strconv.Itoa(r.Days),
		strconv.Itoa(r.Trades),
		formatFloat(r.InitialCash),
		formatFloat(r.FinalEquity),
		formatFloat(r.TotalReturn),
		formatFloat(r.AnnualizedReturn),
		formatFloat(r.MaxDrawdown),
		formatFloat(r.Volatility),
		formatFloat(r.Sharpe),
		r.Created.Format(time.RFC3339),
	})
	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	j.daily.Flush()
	j.runs.Flush()

	errTrades := j.tf.Close()
	errDaily := j.df.Close()
	errRuns := j.rf.Close()

	if errTrades != nil {
		return errTrades
	}
	if errDaily != nil {
		return errDaily
	}
	return errRuns
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
