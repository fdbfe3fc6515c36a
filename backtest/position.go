package backtest

import (
	"time"

	"github.com/mt5kit/backtester/market"
)

// ExitReason records why a position was closed.
type ExitReason string

const (
	ExitStopLoss   ExitReason = "StopLoss"
	ExitTakeProfit ExitReason = "TakeProfit"
)

// Position is the single open trade of a run. The engine holds at most one
// at any simulated instant.
type Position struct {
	Open       bool
	Side       market.Side
	EntryPrice float64
	Lots       float64
	Stop       float64
	Take       float64
	EntryTime  time.Time
}

// Trade is a closed position record. Profit is net of the round-trip
// spread cost.
type Trade struct {
	Side       market.Side `json:"side"`
	EntryPrice float64     `json:"entry_price"`
	ExitPrice  float64     `json:"exit_price"`
	Lots       float64     `json:"lots"`
	Profit     float64     `json:"profit"`
	SpreadCost float64     `json:"spread_cost"`
	Reason     ExitReason  `json:"exit_reason"`
	EntryTime  time.Time   `json:"entry_time"`
	ExitTime   time.Time   `json:"exit_time"`
}

// checkExit evaluates stop and take against the bar's extremes.
//
// Policy: when both levels are touched within the same bar the stop is
// assumed to trigger first. The intrabar path is unknowable from OHLC
// data, so the engine takes the worse outcome for the trader.
func checkExit(p Position, b market.Bar) (exitLevel float64, reason ExitReason, hit bool) {
	if !p.Open {
		return 0, "", false
	}

	if p.Side == market.Long {
		if b.Low <= p.Stop {
			return p.Stop, ExitStopLoss, true
		}
		if b.High >= p.Take {
			return p.Take, ExitTakeProfit, true
		}
		return 0, "", false
	}

	// Short: stop above entry, take below.
	if b.High >= p.Stop {
		return p.Stop, ExitStopLoss, true
	}
	if b.Low <= p.Take {
		return p.Take, ExitTakeProfit, true
	}
	return 0, "", false
}
