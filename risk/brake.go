package risk

import "github.com/mt5kit/backtester/market"

// BrakeTrips reports whether the worst-case loss of a planned trade
// exceeds the profile's emergency brake fraction of current capital.
// It is a hard circuit-breaker independent of sizing, guarding against
// configuration errors; a zero BrakePct disables it.
func BrakeTrips(p market.Profile, capital, stopDistance, lot float64) bool {
	if p.BrakePct <= 0 {
		return false
	}
	worstCase := stopDistance * lot * p.ContractSize
	return worstCase > capital*p.BrakePct/100
}
