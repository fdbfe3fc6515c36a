// Package journal persists backtest results. The engine itself never
// touches storage; a Result is handed here by the caller after a run.
package journal

import (
	"time"

	"github.com/mt5kit/backtester/backtest"
)

// RunRecord mirrors the runs table.
type RunRecord struct {
	RunID     string
	Created   time.Time
	Symbol    string
	Timeframe string
	Strategy  string

	Start time.Time
	End   time.Time

	TotalTrades int
	Wins        int
	Losses      int
	WinRatePct  float64

	InitialCapital  float64
	FinalCapital    float64
	TotalProfit     float64
	TotalSpreadCost float64
	MaxDrawdownPct  float64
}

// Store records completed backtest runs.
type Store interface {
	SaveRun(res backtest.Result) (runID string, err error)
	GetRun(runID string) (RunRecord, error)
	ListRuns(limit int) ([]RunRecord, error)
	ListTrades(runID string) ([]backtest.Trade, error)
	Close() error
}
