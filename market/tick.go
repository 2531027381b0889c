package market

import "time"

type Side int

const (
	Long Side = iota
	Short
)

func (s Side) String() string {
	if s == Short {
		return "SELL"
	}
	return "BUY"
}

type Tick struct {
	Instrument string
	Bid        float64
	Ask        float64
	Time       time.Time
}

func (t Tick) Mid() float64 {
	return (t.Bid + t.Ask) / 2
}

func (t Tick) Spread() float64 {
	return t.Ask - t.Bid
}
