// Package risk converts a desired risk percentage into a bounded trade
// size. Sizing never fails: a zero lot size means "do not trade" and
// callers must treat it as a skip, not an error.
package risk

import (
	"math"

	"github.com/mt5kit/backtester/market"
)

// MinLot is the smallest tradable unit.
const MinLot = 0.01

// Size returns the lot size for a planned trade, always >= 0.
//
// The requested risk percent is first clamped to the profile's cap.
// Standard instruments size linearly from the amount at risk and the stop
// distance; gold and index profiles use tiered sizing throttled by ATR
// (see tieredLot). The result is always clamped to the profile's MaxLot.
func Size(p market.Profile, capital, riskPct, stopDistance, atr float64) float64 {
	if riskPct > p.MaxRiskPct {
		riskPct = p.MaxRiskPct
	}
	if riskPct <= 0 || capital <= 0 {
		return 0
	}

	switch p.Class {
	case market.RiskGold, market.RiskIndex:
		return tieredLot(p, riskPct, atr)
	default:
		return linearLot(p, capital, riskPct, stopDistance)
	}
}

func linearLot(p market.Profile, capital, riskPct, stopDistance float64) float64 {
	riskPerLot := stopDistance * p.ContractSize
	if riskPerLot <= 0 {
		return 0
	}

	amount := capital * riskPct / 100
	lot := amount / riskPerLot
	if lot <= 0 || math.IsNaN(lot) || math.IsInf(lot, 0) {
		return 0
	}

	// Round down to the 0.01 lot step, then bump to the minimum tradable
	// unit and cap at the instrument limit.
	lot = math.Floor(lot*100) / 100
	if lot < MinLot {
		lot = MinLot
	}
	if lot > p.MaxLot {
		lot = p.MaxLot
	}
	return lot
}

// tieredLot sizes high-volatility instruments by risk tier instead of
// linearly, with a hard 0.03 ceiling regardless of the requested risk.
// Elevated ATR halves the base size (floor 0.01); extreme ATR forces the
// floor outright.
func tieredLot(p market.Profile, riskPct, atr float64) float64 {
	var lot float64
	switch {
	case riskPct <= 0.25:
		lot = 0.01
	case riskPct <= 0.50:
		lot = 0.01
	case riskPct <= 0.75:
		lot = 0.02
	case riskPct <= 1.00:
		lot = 0.02
	default:
		lot = 0.03
	}

	switch {
	case p.ATRExtreme > 0 && atr > p.ATRExtreme:
		lot = MinLot
	case p.ATRHigh > 0 && atr > p.ATRHigh:
		lot = lot / 2
		if lot < MinLot {
			lot = MinLot
		}
	}

	if lot > p.MaxLot {
		lot = p.MaxLot
	}
	return lot
}
