// Package strategies defines the uniform signal contract the engine
// consumes. Strategy internals are opaque to the engine: a strategy only
// annotates a bar series with one signal per bar.
package strategies

import (
	"sort"

	"github.com/mt5kit/backtester/market"
)

// Signal is a per-bar trading decision.
type Signal int8

const (
	Hold Signal = 0
	Buy  Signal = +1
	Sell Signal = -1
)

func (s Signal) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// Strategy annotates a bar series with a signal column.
//
// Implementations must be deterministic and must not look ahead: the
// signal at index i may depend on bars[:i+1] only.
type Strategy interface {
	Name() string
	Annotate(ctx market.Context, bars []market.Bar) []Signal
}

// Registry resolves strategies by name. It is populated once and read-only
// afterwards, so concurrent runs may share one.
type Registry struct {
	byName map[string]Strategy
}

func NewRegistry(strats ...Strategy) *Registry {
	r := &Registry{byName: make(map[string]Strategy, len(strats))}
	for _, s := range strats {
		r.byName[s.Name()] = s
	}
	return r
}

func (r *Registry) Get(name string) (Strategy, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// Names returns the registered strategy names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with the built-in strategies.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Noop{},
		NewEMACross(20, 50),
	)
}
