package backtest

import (
	"fmt"

	"github.com/mt5kit/backtester/config"
	"github.com/mt5kit/backtester/indicators"
	"github.com/mt5kit/backtester/market"
	"github.com/mt5kit/backtester/strategies"
)

// Runner resolves a strategy by id, annotates the bar series with signal
// and ATR columns, and drives the engine. It owns no mutable state, so a
// single Runner may serve concurrent runs.
type Runner struct {
	Profiles   market.Registry
	Strategies *strategies.Registry
}

// NewRunner builds a runner with the default profile table and strategy
// registry.
func NewRunner() *Runner {
	return &Runner{
		Profiles:   market.DefaultRegistry(),
		Strategies: strategies.DefaultRegistry(),
	}
}

// Run executes one backtest described by cfg over bars.
//
// Configuration errors (unknown strategy, series shorter than the ATR
// warm-up) are returned as errors; degenerate market data never is.
func (r *Runner) Run(cfg *config.Config, bars []market.Bar) (Result, error) {
	strat, ok := r.Strategies.Get(cfg.Strategy)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q (have %v)", ErrUnknownStrategy, cfg.Strategy, r.Strategies.Names())
	}

	warmup := cfg.ATRPeriod + 1
	if len(bars) <= warmup {
		return Result{}, fmt.Errorf("%w: need more than %d bars for ATR(%d) warm-up, got %d",
			ErrInsufficientData, warmup, cfg.ATRPeriod, len(bars))
	}

	ctx := market.Context{Symbol: cfg.Symbol, Timeframe: cfg.Timeframe}

	signals := strat.Annotate(ctx, bars)
	atr := indicators.Series(bars, cfg.ATRPeriod)

	engine := NewEngine(r.Profiles, ctx, cfg.Params, cfg.InitialCapital)
	return engine.Run(ctx, strat.Name(), bars, signals, atr)
}
