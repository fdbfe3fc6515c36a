package backtest

import (
	"math"
	"time"
)

// TradeLogLimit bounds the trade list exposed on a Result. All trades are
// still counted in the aggregate statistics.
const TradeLogLimit = 20

// Result is the final record of a backtest run. It is a pure value,
// suitable for JSON serialization; persistence belongs to the journal.
type Result struct {
	Symbol    string `json:"symbol"`
	Timeframe string `json:"timeframe"`
	Strategy  string `json:"strategy"`

	TotalTrades int     `json:"total_trades"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRatePct  float64 `json:"win_rate_percent"`

	InitialCapital  float64 `json:"initial_capital"`
	FinalCapital    float64 `json:"final_capital"`
	TotalProfit     float64 `json:"total_profit"`
	TotalSpreadCost float64 `json:"total_spread_costs"`
	MaxDrawdownPct  float64 `json:"max_drawdown_percent"`

	EquityCurve []float64 `json:"equity_curve"`
	Trades      []Trade   `json:"trades"`

	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// book is the running equity state of a run: capital, peak, drawdown and
// the append-only trade list. It is mutated only by the engine on trade
// close.
type book struct {
	initial     float64
	capital     float64
	peak        float64
	maxDrawdown float64 // fraction of peak
	curve       []float64
	trades      []Trade
	spreadCosts float64
}

func newBook(initialCapital float64) *book {
	return &book{
		initial: initialCapital,
		capital: initialCapital,
		peak:    initialCapital,
		curve:   []float64{initialCapital},
	}
}

// record books a closed trade and updates the equity statistics.
func (b *book) record(t Trade) {
	b.capital += t.Profit
	b.spreadCosts += t.SpreadCost
	b.curve = append(b.curve, b.capital)
	b.trades = append(b.trades, t)

	if b.capital > b.peak {
		b.peak = b.capital
	}
	if b.peak > 0 {
		dd := (b.peak - b.capital) / b.peak
		// A loss overshooting the account floor cannot lose more than
		// everything.
		if dd > 1 {
			dd = 1
		}
		if dd > b.maxDrawdown {
			b.maxDrawdown = dd
		}
	}
}

// result snapshots the book into a Result, sanitizing non-finite floats.
func (b *book) result(symbol, timeframe, strategy string, start, end time.Time) Result {
	wins, losses := 0, 0
	var totalProfit float64
	for _, t := range b.trades {
		if t.Profit > 0 {
			wins++
		} else {
			losses++
		}
		totalProfit += t.Profit
	}

	winRate := 0.0
	if n := len(b.trades); n > 0 {
		winRate = float64(wins) / float64(n) * 100
	}

	trades := b.trades
	if len(trades) > TradeLogLimit {
		trades = trades[len(trades)-TradeLogLimit:]
	}

	return Result{
		Symbol:          symbol,
		Timeframe:       timeframe,
		Strategy:        strategy,
		TotalTrades:     len(b.trades),
		Wins:            wins,
		Losses:          losses,
		WinRatePct:      sanitize(winRate, 0),
		InitialCapital:  b.initial,
		FinalCapital:    sanitize(b.capital, b.initial),
		TotalProfit:     sanitize(totalProfit, 0),
		TotalSpreadCost: sanitize(b.spreadCosts, 0),
		MaxDrawdownPct:  sanitize(b.maxDrawdown*100, 0),
		EquityCurve:     sanitizeCurve(b.curve, b.initial),
		Trades:          trades,
		Start:           start,
		End:             end,
	}
}

// sanitize replaces non-finite values, which can arise from degenerate
// divisions in pathological inputs, with a safe fallback.
func sanitize(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

func sanitizeCurve(curve []float64, fallback float64) []float64 {
	out := make([]float64, len(curve))
	for i, v := range curve {
		out[i] = sanitize(v, fallback)
	}
	return out
}
