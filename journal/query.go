package journal

import (
	"database/sql"
	"fmt"
)

// GetRun returns one run summary by ID.
func (j *SQLite) GetRun(runID string) (RunRecord, error) {
	var rec RunRecord

	row := j.db.QueryRow(`
		SELECT run_id, strategy, start_date, end_date, days, trades, initial_cash, final_equity,
		       total_return, annualized_return, max_drawdown, volatility, sharpe, created
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&rec.RunID, &rec.Strategy, &rec.Start, &rec.End, &rec.Days, &rec.Trades,
		&rec.InitialCash, &rec.FinalEquity, &rec.TotalReturn, &rec.AnnualizedReturn,
		&rec.MaxDrawdown, &rec.Volatility, &rec.Sharpe, &rec.Created,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}
	return rec, nil
}

// ListRuns returns run summaries, most recent first.
func (j *SQLite) ListRuns() ([]RunRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, strategy, start_date, end_date, days, trades, initial_cash, final_equity,
		       total_return, annualized_return, max_drawdown, volatility, sharpe, created
		FROM runs
		ORDER BY created DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(
			&rec.RunID, &rec.Strategy, &rec.Start, &rec.End, &rec.Days, &rec.Trades,
			&rec.InitialCash, &rec.FinalEquity, &rec.TotalReturn, &rec.AnnualizedReturn,
			&rec.MaxDrawdown, &rec.Volatility, &rec.Sharpe, &rec.Created,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListTradesByRun returns a run's fills in date then ID order.
func (j *SQLite) ListTradesByRun(runID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, run_id, order_id, symbol, side, volume, price, commission, stamp_duty, transfer_fee, date
		FROM trades
		WHERE run_id = ?
		ORDER BY date ASC, trade_id ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		if err := rows.Scan(
			&rec.TradeID, &rec.RunID, &rec.OrderID, &rec.Symbol, &rec.Side, &rec.Volume,
			&rec.Price, &rec.Commission, &rec.StampDuty, &rec.TransferFee, &rec.Date,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListDailyByRun returns a run's equity curve in date order.
func (j *SQLite) ListDailyByRun(runID string) ([]DailyRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, date, cash, equity, drawdown_from_peak, daily_return
		FROM daily
		WHERE run_id = ?
		ORDER BY date ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DailyRecord
	for rows.Next() {
		var rec DailyRecord
		if err := rows.Scan(
			&rec.RunID, &rec.Date, &rec.Cash, &rec.Equity, &rec.DrawdownFromPeak, &rec.DailyReturn,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
