package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, run_id, order_id, symbol, side, volume, price, commission, stamp_duty, transfer_fee, date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.RunID, t.OrderID, t.Symbol, t.Side, t.Volume,
		t.Price, t.Commission, t.StampDuty, t.TransferFee, t.Date,
	)
	return err
}

func (j *SQLite) RecordDaily(d DailyRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO daily
		(run_id, date, cash, equity, drawdown_from_peak, daily_return)
		VALUES (?, ?, ?, ?, ?, ?)`,
		d.RunID, d.Date, d.Cash, d.Equity, d.DrawdownFromPeak, d.DailyReturn,
	)
	return err
}

func (j *SQLite) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, strategy, start_date, end_date, days, trades, initial_cash, final_equity,
		 total_return, annualized_return, max_drawdown, volatility, sharpe, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Strategy, r.Start, r.End, r.Days, r.Trades, r.InitialCash, r.FinalEquity,
		r.TotalReturn, r.AnnualizedReturn, r.MaxDrawdown, r.Volatility, r.Sharpe, r.Created,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
