package market

// RiskClass selects the sizing behavior for an instrument category.
// Gold and Index carry tiered, volatility-throttled sizing; Standard is
// linear risk-based sizing.
type RiskClass int8

const (
	RiskStandard RiskClass = iota
	RiskGold
	RiskIndex
)

// Category is an instrument classification bucket.
type Category string

const (
	ForexMajor Category = "forex_major"
	ForexJPY   Category = "forex_jpy"
	Gold       Category = "gold"
	Crypto     Category = "crypto"
	Index      Category = "index"
)

// Profile is the immutable cost/risk configuration for one instrument
// category.
//
// MaxRiskPct caps any caller-supplied risk percentage. MaxLot must be
// positive. ATRHigh/ATRExtreme are volatility throttle thresholds in price
// units; zero disables the throttle. BrakePct is the emergency brake
// threshold as a percent of capital; zero disables the brake.
type Profile struct {
	Category     Category
	Class        RiskClass
	ContractSize float64
	PipSize      float64
	SpreadPips   float64
	SlippagePips float64
	MaxRiskPct   float64
	MaxLot       float64
	ATRHigh      float64
	ATRExtreme   float64
	BrakePct     float64
}

// Registry is the instrument profile lookup table. It is loaded once and
// read-only for the lifetime of a run, so concurrent runs may share one.
type Registry struct {
	profiles map[Category]Profile
}

// DefaultRegistry returns the built-in profile table.
func DefaultRegistry() Registry {
	return Registry{profiles: map[Category]Profile{
		ForexMajor: {
			Category:     ForexMajor,
			Class:        RiskStandard,
			ContractSize: 100_000,
			PipSize:      0.0001,
			SpreadPips:   1.5,
			SlippagePips: 0.5,
			MaxRiskPct:   2.0,
			MaxLot:       10,
			BrakePct:     10,
		},
		ForexJPY: {
			Category:     ForexJPY,
			Class:        RiskStandard,
			ContractSize: 100_000,
			PipSize:      0.01,
			SpreadPips:   1.8,
			SlippagePips: 0.6,
			MaxRiskPct:   2.0,
			MaxLot:       10,
			BrakePct:     10,
		},
		Gold: {
			Category:     Gold,
			Class:        RiskGold,
			ContractSize: 100,
			PipSize:      0.01,
			SpreadPips:   35,
			SlippagePips: 10,
			MaxRiskPct:   1.0,
			MaxLot:       0.05,
			ATRHigh:      10.0,
			ATRExtreme:   20.0,
			BrakePct:     5,
		},
		Crypto: {
			Category:     Crypto,
			Class:        RiskStandard,
			ContractSize: 1,
			PipSize:      1.0,
			SpreadPips:   25,
			SlippagePips: 10,
			MaxRiskPct:   1.0,
			MaxLot:       5,
			BrakePct:     10,
		},
		Index: {
			Category:     Index,
			Class:        RiskIndex,
			ContractSize: 10,
			PipSize:      0.1,
			SpreadPips:   30,
			SlippagePips: 15,
			MaxRiskPct:   1.0,
			MaxLot:       0.10,
			ATRHigh:      40.0,
			ATRExtreme:   80.0,
			BrakePct:     5,
		},
	}}
}

// Profile returns the profile for a category, falling back to ForexMajor
// for unknown categories so lookups are total.
func (r Registry) Profile(c Category) Profile {
	if p, ok := r.profiles[c]; ok {
		return p
	}
	return r.profiles[ForexMajor]
}

// Lookup classifies a symbol and returns its profile.
func (r Registry) Lookup(symbol string) Profile {
	return r.Profile(Classify(symbol))
}
