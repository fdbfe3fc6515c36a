package strategies

import (
	"fmt"

	"github.com/mt5kit/backtester/indicators"
	"github.com/mt5kit/backtester/market"
)

// EMACross signals when a fast EMA crosses a slow EMA. A small state
// machine suppresses repeated signals while the EMAs stay crossed.
type EMACross struct {
	fastPeriod int
	slowPeriod int
}

func NewEMACross(fast, slow int) *EMACross {
	if fast <= 0 || slow <= 0 {
		panic("EMACross periods must be > 0")
	}
	if fast >= slow {
		panic("EMACross requires fast < slow")
	}
	return &EMACross{fastPeriod: fast, slowPeriod: slow}
}

func (s *EMACross) Name() string {
	return fmt.Sprintf("ema_cross_%d_%d", s.fastPeriod, s.slowPeriod)
}

func (s *EMACross) Annotate(_ market.Context, bars []market.Bar) []Signal {
	signals := make([]Signal, len(bars))

	fast := indicators.NewEMA(s.fastPeriod)
	slow := indicators.NewEMA(s.slowPeriod)

	// prevRel: -1 fast below slow, +1 above, 0 unknown/not ready
	prevRel := 0

	for i, b := range bars {
		fast.Update(b.Close)
		slow.Update(b.Close)

		if !fast.Ready() || !slow.Ready() {
			continue
		}

		rel := 0
		switch {
		case fast.Value() > slow.Value():
			rel = +1
		case fast.Value() < slow.Value():
			rel = -1
		}

		if prevRel != 0 && rel != 0 && rel != prevRel {
			if rel > 0 {
				signals[i] = Buy
			} else {
				signals[i] = Sell
			}
		}
		if rel != 0 {
			prevRel = rel
		}
	}

	return signals
}
