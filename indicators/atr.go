// Package indicators provides the technical indicators the engine and its
// reference strategies need. All indicators are deterministic streaming
// computations over closed bars.
package indicators

import (
	"fmt"
	"math"

	"github.com/mt5kit/backtester/market"
)

// ATR is a streaming Average True Range indicator using Wilder's smoothing.
type ATR struct {
	period      int
	atr         float64
	count       int
	warmupSum   float64
	prevBar     market.Bar
	hasPrevious bool
}

// NewATR creates an Average True Range indicator with the given period.
func NewATR(period int) *ATR {
	return &ATR{period: period}
}

func (a *ATR) Name() string {
	return fmt.Sprintf("ATR(%d)", a.period)
}

// Warmup returns the number of bars needed before Ready() can be true.
// TR requires a previous bar, hence period+1.
func (a *ATR) Warmup() int {
	return a.period + 1
}

func (a *ATR) Reset() {
	a.atr = 0
	a.count = 0
	a.warmupSum = 0
	a.hasPrevious = false
}

// Update consumes the next closed bar.
func (a *ATR) Update(b market.Bar) {
	if !a.hasPrevious {
		a.prevBar = b
		a.hasPrevious = true
		return
	}

	tr := trueRange(b, a.prevBar)

	if a.count < a.period {
		a.warmupSum += tr
		a.count++
		if a.count == a.period {
			a.atr = a.warmupSum / float64(a.period)
		}
	} else {
		// Wilder's smoothing
		a.atr = (a.atr*float64(a.period-1) + tr) / float64(a.period)
	}

	a.prevBar = b
}

func (a *ATR) Ready() bool {
	return a.count >= a.period
}

// Value returns the current ATR, or 0 before the warmup completes.
// Callers should check Ready().
func (a *ATR) Value() float64 {
	if !a.Ready() {
		return 0
	}
	return a.atr
}

// Series computes an ATR column aligned with bars: one value per bar,
// zero until the warmup completes.
func Series(bars []market.Bar, period int) []float64 {
	a := NewATR(period)
	out := make([]float64, len(bars))
	for i, b := range bars {
		a.Update(b)
		out[i] = a.Value()
	}
	return out
}

// trueRange is the True Range of a bar given the previous bar.
func trueRange(current, previous market.Bar) float64 {
	highLow := current.High - current.Low
	highClose := math.Abs(current.High - previous.Close)
	lowClose := math.Abs(current.Low - previous.Close)

	return math.Max(highLow, math.Max(highClose, lowClose))
}
