// Package backtest simulates what a stream of trading signals would have
// done to an account: instrument-aware position sizing, spread and
// slippage costs, stop/take triggering on bar extremes, and equity and
// drawdown accounting.
//
// A single run is strictly sequential: each bar's decisions depend on the
// state left by the previous bar, which is what prevents look-ahead bias.
// Independent runs share no mutable state and may execute concurrently.
package backtest

import (
	"errors"
	"fmt"

	"github.com/mt5kit/backtester/config"
	"github.com/mt5kit/backtester/execution"
	"github.com/mt5kit/backtester/market"
	"github.com/mt5kit/backtester/risk"
	"github.com/mt5kit/backtester/strategies"
)

var (
	// ErrUnknownStrategy is returned when the strategy id does not resolve.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrInsufficientData is returned when the bar series is empty or too
	// short to simulate.
	ErrInsufficientData = errors.New("insufficient price data")
)

// Engine replays a signal-annotated bar series against one instrument
// profile. An Engine is single-use per Run call but holds no mutable
// state between runs, so one value may serve many sequential runs.
type Engine struct {
	Profile        market.Profile
	Exec           execution.Model
	Params         config.Params
	InitialCapital float64
}

// NewEngine builds an engine for a market context, deriving the
// instrument profile from the registry and the execution model from the
// feature toggles.
func NewEngine(reg market.Registry, ctx market.Context, params config.Params, initialCapital float64) *Engine {
	if initialCapital <= 0 {
		initialCapital = config.DefaultInitialCapital
	}
	return &Engine{
		Profile: reg.Lookup(ctx.Symbol),
		Exec: execution.Model{
			SpreadCosts: params.Features.SpreadCosts(),
			Slippage:    params.Features.Slippage(),
			Realistic:   params.Features.RealisticExecution(),
		},
		Params:         params,
		InitialCapital: initialCapital,
	}
}

// Run simulates the series bar by bar. signals and atr are columns aligned
// with bars; bar 0 is indicator warm-up only. The caller must have dropped
// rows with missing indicator values.
//
// Per bar, in order: ruin check, exit check for the open position (stop
// before take), then entry on the bar's signal. A position still open when
// the data ends is discarded, not booked; only stop and take exits produce
// trades.
func (e *Engine) Run(ctx market.Context, strategyName string, bars []market.Bar, signals []strategies.Signal, atr []float64) (Result, error) {
	if len(bars) < 2 {
		return Result{}, fmt.Errorf("%w: need at least 2 bars, got %d", ErrInsufficientData, len(bars))
	}
	if len(signals) != len(bars) || len(atr) != len(bars) {
		return Result{}, fmt.Errorf("%w: column lengths do not match bars", ErrInsufficientData)
	}

	b := newBook(e.InitialCapital)
	var pos Position

	for i := 1; i < len(bars); i++ {
		// Account ruin ends the run; the partial result still stands.
		if b.capital <= 0 {
			break
		}

		bar := bars[i]

		// Exits are evaluated before new entries so a stop hit on this bar
		// cannot be shadowed by a same-bar signal.
		if pos.Open {
			if level, reason, hit := checkExit(pos, bar); hit {
				e.closePosition(b, &pos, level, reason, bar)
			}
		}

		if pos.Open {
			continue
		}

		sig := signals[i]
		if sig == strategies.Hold {
			continue
		}

		// A trade cannot be sized safely without volatility context.
		a := atr[i]
		if !(a > 0) {
			continue
		}

		e.openPosition(b, &pos, sig, bar, a)
	}

	start := bars[0].Time
	end := bars[len(bars)-1].Time
	return b.result(ctx.Symbol, ctx.Timeframe, strategyName, start, end), nil
}

func (e *Engine) openPosition(b *book, pos *Position, sig strategies.Signal, bar market.Bar, atr float64) {
	p := e.Profile

	stopDistance := atr * e.Params.SLATRMult
	targetDistance := atr * e.Params.TPATRMult

	lots := risk.Size(p, b.capital, e.Params.RiskPercent, stopDistance, atr)
	if lots <= 0 {
		return
	}
	if risk.BrakeTrips(p, b.capital, stopDistance, lots) {
		return
	}

	side := market.Long
	if sig == strategies.Sell {
		side = market.Short
	}

	entry := e.Exec.EntryPrice(side, bar.Close, p.SpreadPips, p.PipSize, p.SlippagePips)

	*pos = Position{
		Open:       true,
		Side:       side,
		EntryPrice: entry,
		Lots:       lots,
		Stop:       entry - float64(side)*stopDistance,
		Take:       entry + float64(side)*targetDistance,
		EntryTime:  bar.Time,
	}
}

func (e *Engine) closePosition(b *book, pos *Position, level float64, reason ExitReason, bar market.Bar) {
	p := e.Profile

	exit := e.Exec.ExitPrice(pos.Side, level, p.SpreadPips, p.PipSize, p.SlippagePips)
	spreadCost := e.Exec.RoundTripSpreadCost(p.SpreadPips, p.PipSize, p.ContractSize, pos.Lots)

	profit := float64(pos.Side)*(exit-pos.EntryPrice)*pos.Lots*p.ContractSize - spreadCost

	b.record(Trade{
		Side:       pos.Side,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  exit,
		Lots:       pos.Lots,
		Profit:     profit,
		SpreadCost: spreadCost,
		Reason:     reason,
		EntryTime:  pos.EntryTime,
		ExitTime:   bar.Time,
	})

	pos.Open = false
}
