package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mt5kit/backtester/backtest"
	"github.com/mt5kit/backtester/internal/id"
	"github.com/mt5kit/backtester/market"
)

func sideFromString(s string) market.Side {
	if s == "SELL" {
		return market.Short
	}
	return market.Long
}

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// SaveRun persists the run summary and its trade log in one transaction
// and returns the generated run ID.
func (s *SQLiteStore) SaveRun(res backtest.Result) (string, error) {
	runID := id.New()

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs
		(run_id, created, symbol, timeframe, strategy, start_time, end_time,
		 total_trades, wins, losses, win_rate_pct,
		 initial_capital, final_capital, total_profit, total_spread_cost, max_drawdown_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, time.Now().UTC(), res.Symbol, res.Timeframe, res.Strategy,
		res.Start, res.End,
		res.TotalTrades, res.Wins, res.Losses, res.WinRatePct,
		res.InitialCapital, res.FinalCapital, res.TotalProfit, res.TotalSpreadCost, res.MaxDrawdownPct,
	)
	if err != nil {
		return "", err
	}

	for i, t := range res.Trades {
		_, err = tx.Exec(`
			INSERT INTO run_trades
			(run_id, seq, side, lots, entry_price, exit_price, profit, spread_cost, reason, entry_time, exit_time)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, i, t.Side.String(), t.Lots, t.EntryPrice, t.ExitPrice,
			t.Profit, t.SpreadCost, string(t.Reason), t.EntryTime, t.ExitTime,
		)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// GetRun returns a single run summary by ID.
func (s *SQLiteStore) GetRun(runID string) (RunRecord, error) {
	var rec RunRecord

	row := s.db.QueryRow(`
		SELECT run_id, created, symbol, timeframe, strategy, start_time, end_time,
		       total_trades, wins, losses, win_rate_pct,
		       initial_capital, final_capital, total_profit, total_spread_cost, max_drawdown_pct
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&rec.RunID,
		&rec.Created,
		&rec.Symbol,
		&rec.Timeframe,
		&rec.Strategy,
		&rec.Start,
		&rec.End,
		&rec.TotalTrades,
		&rec.Wins,
		&rec.Losses,
		&rec.WinRatePct,
		&rec.InitialCapital,
		&rec.FinalCapital,
		&rec.TotalProfit,
		&rec.TotalSpreadCost,
		&rec.MaxDrawdownPct,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}
	return rec, nil
}

// ListTrades returns the persisted trade log of a run in close order.
func (s *SQLiteStore) ListTrades(runID string) ([]backtest.Trade, error) {
	rows, err := s.db.Query(`
		SELECT side, lots, entry_price, exit_price, profit, spread_cost, reason, entry_time, exit_time
		FROM run_trades
		WHERE run_id = ?
		ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []backtest.Trade
	for rows.Next() {
		var t backtest.Trade
		var side, reason string
		if err := rows.Scan(
			&side,
			&t.Lots,
			&t.EntryPrice,
			&t.ExitPrice,
			&t.Profit,
			&t.SpreadCost,
			&reason,
			&t.EntryTime,
			&t.ExitTime,
		); err != nil {
			return nil, err
		}
		t.Side = sideFromString(side)
		t.Reason = backtest.ExitReason(reason)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRuns returns the most recent run summaries, newest first.
func (s *SQLiteStore) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT run_id, created, symbol, timeframe, strategy, start_time, end_time,
		       total_trades, wins, losses, win_rate_pct,
		       initial_capital, final_capital, total_profit, total_spread_cost, max_drawdown_pct
		FROM runs
		ORDER BY run_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Created,
			&rec.Symbol,
			&rec.Timeframe,
			&rec.Strategy,
			&rec.Start,
			&rec.End,
			&rec.TotalTrades,
			&rec.Wins,
			&rec.Losses,
			&rec.WinRatePct,
			&rec.InitialCapital,
			&rec.FinalCapital,
			&rec.TotalProfit,
			&rec.TotalSpreadCost,
			&rec.MaxDrawdownPct,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
