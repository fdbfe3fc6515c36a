package market

import "time"

// Bar represents one OHLCV candlestick sample.
//
// A bar series is time-ordered with no duplicate timestamps. The engine
// consumes bars read-only; decisions at bar i use only data known at bar i.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Side: +1 long, -1 short
type Side int8

const (
	Long  Side = +1
	Short Side = -1
)

func (s Side) String() string {
	if s == Short {
		return "SELL"
	}
	return "BUY"
}

// Context identifies the market a run operates on. It is passed by value
// and carries no behavior.
type Context struct {
	Symbol    string
	Timeframe string
}
