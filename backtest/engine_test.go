package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mt5kit/backtester/config"
	"github.com/mt5kit/backtester/execution"
	"github.com/mt5kit/backtester/market"
	"github.com/mt5kit/backtester/strategies"
)

var t0 = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func bar(i int, o, h, l, c float64) market.Bar {
	return market.Bar{
		Time:  t0.Add(time.Duration(i) * time.Hour),
		Open:  o,
		High:  h,
		Low:   l,
		Close: c,
	}
}

// frictionless engine on the stock forex-major profile: fills at the
// theoretical level, no spread cost, so arithmetic is exact.
func forexEngine() *Engine {
	return &Engine{
		Profile:        market.DefaultRegistry().Profile(market.ForexMajor),
		Exec:           execution.Model{},
		Params:         config.Params{RiskPercent: 1.0, SLATRMult: 2.0, TPATRMult: 4.0},
		InitialCapital: 10_000,
	}
}

func testCtx() market.Context {
	return market.Context{Symbol: "EURUSD", Timeframe: "H1"}
}

func TestRunTakeProfit(t *testing.T) {
	t.Parallel()

	bars := []market.Bar{
		bar(0, 1.1000, 1.1005, 1.0995, 1.1000),
		bar(1, 1.1000, 1.1005, 1.0995, 1.1000), // BUY here, entry 1.1000
		bar(2, 1.1000, 1.1050, 1.1010, 1.1045), // take 1.1040 touched
	}
	signals := []strategies.Signal{strategies.Hold, strategies.Buy, strategies.Hold}
	atr := []float64{0.0010, 0.0010, 0.0010}

	res, err := forexEngine().Run(testCtx(), "test", bars, signals, atr)
	require.NoError(t, err)

	require.Equal(t, 1, res.TotalTrades)
	tr := res.Trades[0]
	assert.Equal(t, market.Long, tr.Side)
	assert.Equal(t, ExitTakeProfit, tr.Reason)
	assert.InDelta(t, 1.1000, tr.EntryPrice, 1e-9)
	assert.InDelta(t, 1.1040, tr.ExitPrice, 1e-9)
	// lot 0.5 from the reference sizing arithmetic; 40 pips * 0.5 * 100k
	assert.InDelta(t, 0.5, tr.Lots, 1e-9)
	assert.InDelta(t, 200.0, tr.Profit, 1e-6)
	assert.InDelta(t, 10_200.0, res.FinalCapital, 1e-6)
	assert.Equal(t, 1, res.Wins)
	assert.InDelta(t, 100.0, res.WinRatePct, 1e-9)
}

func TestRunStopLoss(t *testing.T) {
	t.Parallel()

	bars := []market.Bar{
		bar(0, 1.1000, 1.1005, 1.0995, 1.1000),
		bar(1, 1.1000, 1.1005, 1.0995, 1.1000),
		bar(2, 1.1000, 1.1005, 1.0970, 1.0975), // stop 1.0980 touched
	}
	signals := []strategies.Signal{strategies.Hold, strategies.Buy, strategies.Hold}
	atr := []float64{0.0010, 0.0010, 0.0010}

	res, err := forexEngine().Run(testCtx(), "test", bars, signals, atr)
	require.NoError(t, err)

	require.Equal(t, 1, res.TotalTrades)
	tr := res.Trades[0]
	assert.Equal(t, ExitStopLoss, tr.Reason)
	assert.InDelta(t, 1.0980, tr.ExitPrice, 1e-9)
	assert.InDelta(t, -100.0, tr.Profit, 1e-6)
	assert.Equal(t, 1, res.Losses)
	// One losing trade: drawdown 100/10_000 of the peak.
	assert.InDelta(t, 1.0, res.MaxDrawdownPct, 1e-6)
}

func TestRunStopFirstTieBreak(t *testing.T) {
	t.Parallel()

	// Bar 2 touches both the stop and the take; the pessimistic policy
	// books the stop.
	bars := []market.Bar{
		bar(0, 1.1000, 1.1005, 1.0995, 1.1000),
		bar(1, 1.1000, 1.1005, 1.0995, 1.1000),
		bar(2, 1.1000, 1.1060, 1.0970, 1.1000),
	}
	signals := []strategies.Signal{strategies.Hold, strategies.Buy, strategies.Hold}
	atr := []float64{0.0010, 0.0010, 0.0010}

	res, err := forexEngine().Run(testCtx(), "test", bars, signals, atr)
	require.NoError(t, err)

	require.Equal(t, 1, res.TotalTrades)
	assert.Equal(t, ExitStopLoss, res.Trades[0].Reason)
	assert.InDelta(t, -100.0, res.Trades[0].Profit, 1e-6)
}

func TestRunShortSide(t *testing.T) {
	t.Parallel()

	bars := []market.Bar{
		bar(0, 1.1000, 1.1005, 1.0995, 1.1000),
		bar(1, 1.1000, 1.1005, 1.0995, 1.1000), // SELL, stop 1.1020, take 1.0960
		bar(2, 1.1000, 1.1005, 1.0950, 1.0955),
	}
	signals := []strategies.Signal{strategies.Hold, strategies.Sell, strategies.Hold}
	atr := []float64{0.0010, 0.0010, 0.0010}

	res, err := forexEngine().Run(testCtx(), "test", bars, signals, atr)
	require.NoError(t, err)

	require.Equal(t, 1, res.TotalTrades)
	tr := res.Trades[0]
	assert.Equal(t, market.Short, tr.Side)
	assert.Equal(t, ExitTakeProfit, tr.Reason)
	assert.InDelta(t, 1.0960, tr.ExitPrice, 1e-9)
	assert.InDelta(t, 200.0, tr.Profit, 1e-6)
}

func TestRunZeroATRSkipsSignal(t *testing.T) {
	t.Parallel()

	bars := []market.Bar{
		bar(0, 1.1000, 1.1005, 1.0995, 1.1000),
		bar(1, 1.1000, 1.1005, 1.0995, 1.1000),
		bar(2, 1.1000, 1.1100, 1.0900, 1.1000),
	}
	signals := []strategies.Signal{strategies.Hold, strategies.Buy, strategies.Hold}
	atr := []float64{0, 0, 0}

	res, err := forexEngine().Run(testCtx(), "test", bars, signals, atr)
	require.NoError(t, err)
	assert.Zero(t, res.TotalTrades, "cannot size a trade without volatility context")
	assert.InDelta(t, 10_000.0, res.FinalCapital, 1e-9)
}

func TestRunAtMostOnePosition(t *testing.T) {
	t.Parallel()

	// Signals on every bar; only the first can open until it exits.
	bars := []market.Bar{
		bar(0, 1.1000, 1.1005, 1.0995, 1.1000),
		bar(1, 1.1000, 1.1005, 1.0995, 1.1000),
		bar(2, 1.1000, 1.1010, 1.0990, 1.1000), // neither level touched
		bar(3, 1.1000, 1.1010, 1.0990, 1.1000),
		bar(4, 1.1000, 1.1050, 1.1010, 1.1040), // take touched
		bar(5, 1.1040, 1.1045, 1.1035, 1.1040),
	}
	signals := []strategies.Signal{
		strategies.Hold, strategies.Buy, strategies.Buy,
		strategies.Sell, strategies.Buy, strategies.Buy,
	}
	atr := []float64{0.0010, 0.0010, 0.0010, 0.0010, 0.0010, 0.0010}

	res, err := forexEngine().Run(testCtx(), "test", bars, signals, atr)
	require.NoError(t, err)

	// Trade 1 opens at bar 1 and exits at bar 4; a second can open at bar 5.
	for i := 1; i < len(res.Trades); i++ {
		assert.False(t, res.Trades[i].EntryTime.Before(res.Trades[i-1].ExitTime),
			"positions must never overlap")
	}
	require.NotEmpty(t, res.Trades)
	assert.Equal(t, bars[1].Time, res.Trades[0].EntryTime)
	assert.Equal(t, bars[4].Time, res.Trades[0].ExitTime)
}

func TestRunRuinStopsEarly(t *testing.T) {
	t.Parallel()

	e := &Engine{
		Profile: market.Profile{
			Category:     market.ForexMajor,
			Class:        market.RiskStandard,
			ContractSize: 100,
			PipSize:      0.01,
			MaxRiskPct:   100,
			MaxLot:       1000,
		},
		Exec:           execution.Model{},
		Params:         config.Params{RiskPercent: 100, SLATRMult: 1.0, TPATRMult: 2.0},
		InitialCapital: 100,
	}

	// Trade risks the whole account: stop distance 1.0, lot 1.0, loss 100.
	bars := []market.Bar{
		bar(0, 100, 100.5, 99.5, 100),
		bar(1, 100, 100.5, 99.5, 100), // BUY, stop 99
		bar(2, 99.5, 99.6, 98.5, 98.8), // stop hit, capital -> 0
		bar(3, 98.8, 120, 98.0, 118),   // never processed
		bar(4, 118, 140, 117, 139),
	}
	signals := []strategies.Signal{
		strategies.Hold, strategies.Buy, strategies.Hold, strategies.Buy, strategies.Hold,
	}
	atr := []float64{1, 1, 1, 1, 1}

	res, err := e.Run(testCtx(), "test", bars, signals, atr)
	require.NoError(t, err, "ruin is early termination, not an error")

	assert.Equal(t, 1, res.TotalTrades, "bars after ruin are not processed")
	assert.InDelta(t, 0.0, res.FinalCapital, 1e-9)
	assert.InDelta(t, 100.0, res.MaxDrawdownPct, 1e-9)
}

func TestRunDeterminism(t *testing.T) {
	t.Parallel()

	bars := make([]market.Bar, 0, 60)
	signals := make([]strategies.Signal, 0, 60)
	atr := make([]float64, 0, 60)

	// A repeatable zig-zag series with alternating signals.
	px := 1.1000
	for i := 0; i < 60; i++ {
		step := 0.0008
		if i%2 == 0 {
			px += step
		} else {
			px -= step / 2
		}
		bars = append(bars, bar(i, px, px+0.0012, px-0.0012, px))
		switch i % 7 {
		case 2:
			signals = append(signals, strategies.Buy)
		case 5:
			signals = append(signals, strategies.Sell)
		default:
			signals = append(signals, strategies.Hold)
		}
		atr = append(atr, 0.0009)
	}

	first, err := forexEngine().Run(testCtx(), "test", bars, signals, atr)
	require.NoError(t, err)
	second, err := forexEngine().Run(testCtx(), "test", bars, signals, atr)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical inputs must produce identical results")
}

func TestRunRiskAndLotInvariants(t *testing.T) {
	t.Parallel()

	e := forexEngine()
	p := e.Profile

	bars := make([]market.Bar, 0, 80)
	signals := make([]strategies.Signal, 0, 80)
	atr := make([]float64, 0, 80)

	px := 1.2000
	for i := 0; i < 80; i++ {
		if i%3 == 0 {
			px -= 0.0030
		} else {
			px += 0.0010
		}
		bars = append(bars, bar(i, px, px+0.0020, px-0.0020, px))
		if i%4 == 1 {
			signals = append(signals, strategies.Buy)
		} else {
			signals = append(signals, strategies.Hold)
		}
		atr = append(atr, 0.0012)
	}

	res, err := e.Run(testCtx(), "test", bars, signals, atr)
	require.NoError(t, err)
	require.NotEmpty(t, res.Trades)
	require.Equal(t, res.TotalTrades, len(res.EquityCurve)-1)
	require.Equal(t, res.TotalTrades, len(res.Trades), "trade log must be unclipped for this series")

	for i, tr := range res.Trades {
		assert.Greater(t, tr.Lots, 0.0)
		assert.LessOrEqual(t, tr.Lots, p.MaxLot)

		// Worst-case loss never exceeds the capital at entry times the
		// profile risk cap. EquityCurve[i] is the capital before trade i
		// closed; with at most one open position it is also the capital at
		// entry. Frictionless fills make the stop-loss trades measure
		// exactly the planned risk.
		if tr.Reason == ExitStopLoss {
			capAtEntry := res.EquityCurve[i]
			assert.LessOrEqual(t, -tr.Profit, capAtEntry*p.MaxRiskPct/100+1e-6)
		}
	}

	assert.GreaterOrEqual(t, res.MaxDrawdownPct, 0.0)
	assert.LessOrEqual(t, res.MaxDrawdownPct, 100.0)
}

func TestRunSpreadAndSlippageCosts(t *testing.T) {
	t.Parallel()

	e := forexEngine()
	e.Exec = execution.DefaultModel()
	p := e.Profile

	bars := []market.Bar{
		bar(0, 1.1000, 1.1005, 1.0995, 1.1000),
		bar(1, 1.1000, 1.1005, 1.0995, 1.1000),
		bar(2, 1.1000, 1.1100, 1.1010, 1.1090), // far beyond the take
	}
	signals := []strategies.Signal{strategies.Hold, strategies.Buy, strategies.Hold}
	atr := []float64{0.0010, 0.0010, 0.0010}

	res, err := e.Run(testCtx(), "test", bars, signals, atr)
	require.NoError(t, err)
	require.Equal(t, 1, res.TotalTrades)

	tr := res.Trades[0]
	takeLevel := tr.EntryPrice + 4*0.0010
	assert.Greater(t, tr.EntryPrice, 1.1000, "long entry pays the ask side plus slippage")
	assert.Less(t, tr.ExitPrice, takeLevel, "exit fill is worse than the theoretical level")
	assert.Greater(t, tr.SpreadCost, 0.0)
	assert.InDelta(t, tr.SpreadCost, res.TotalSpreadCost, 1e-9)

	// Net of all costs the same move pays less than the frictionless 400.
	frictionless := 4 * 0.0010 * tr.Lots * p.ContractSize
	assert.Less(t, tr.Profit, frictionless)
}

func TestRunInputValidation(t *testing.T) {
	t.Parallel()

	e := forexEngine()

	_, err := e.Run(testCtx(), "test", nil, nil, nil)
	assert.ErrorIs(t, err, ErrInsufficientData)

	bars := []market.Bar{bar(0, 1, 1, 1, 1), bar(1, 1, 1, 1, 1)}
	_, err = e.Run(testCtx(), "test", bars, make([]strategies.Signal, 1), make([]float64, 2))
	assert.ErrorIs(t, err, ErrInsufficientData)
}
