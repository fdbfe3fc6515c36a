// Package execution models realistic fill prices. A buyer always pays the
// ask side of the spread plus slippage; a seller receives the bid side.
// Exits mirror the asymmetry, so a simulated round trip is never cheaper
// than a real fill would be.
package execution

import "github.com/mt5kit/backtester/market"

// Model holds the engine feature toggles. The zero value disables
// everything; use DefaultModel for the normal all-on configuration.
type Model struct {
	SpreadCosts bool // charge the explicit round-trip spread cost per trade
	Slippage    bool // apply adverse slippage to fills
	Realistic   bool // shift fills by half the spread to the adverse side
}

// DefaultModel returns a Model with all execution features enabled.
func DefaultModel() Model {
	return Model{SpreadCosts: true, Slippage: true, Realistic: true}
}

// EntryPrice converts a theoretical reference price into a fill price for
// opening a position. A Long entry is always >= ref, a Short entry always
// <= ref. With spread and slippage at zero the fill collapses to ref.
func (m Model) EntryPrice(side market.Side, ref, spreadPips, pipSize, slippagePips float64) float64 {
	return ref + float64(side)*m.adverse(spreadPips, pipSize, slippagePips)
}

// ExitPrice converts a theoretical exit level (stop or target) into a fill
// price for closing. Closing a Long sells, so the fill is <= level; closing
// a Short buys, so the fill is >= level.
func (m Model) ExitPrice(side market.Side, level, spreadPips, pipSize, slippagePips float64) float64 {
	return level - float64(side)*m.adverse(spreadPips, pipSize, slippagePips)
}

// RoundTripSpreadCost is the bid/ask gap charged once per closed trade, in
// account currency. Zero when spread costs are disabled.
func (m Model) RoundTripSpreadCost(spreadPips, pipSize, contractSize, lots float64) float64 {
	if !m.SpreadCosts {
		return 0
	}
	return spreadPips * pipSize * contractSize * lots
}

// adverse is the price penalty applied on the losing side of a fill:
// half the spread (crossing from mid to ask/bid) plus slippage.
func (m Model) adverse(spreadPips, pipSize, slippagePips float64) float64 {
	var pips float64
	if m.Realistic {
		pips += spreadPips / 2
	}
	if m.Slippage {
		pips += slippagePips
	}
	return pips * pipSize
}
