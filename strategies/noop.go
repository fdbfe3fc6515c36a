package strategies

import "github.com/mt5kit/backtester/market"

// Noop never signals. Useful as a baseline and in tests.
type Noop struct{}

func (Noop) Name() string { return "noop" }

func (Noop) Annotate(_ market.Context, bars []market.Bar) []Signal {
	return make([]Signal, len(bars))
}
