package market

import "time"

// Position is an open trade as reported by the venue. The engine never
// mutates one directly; it asks the venue to modify the stop or close it.
type Position struct {
	Ticket       string
	Instrument   string
	Side         Side
	Volume       float64
	OpenPrice    float64
	CurrentPrice float64
	StopLoss     float64
	TakeProfit   float64
	OpenTime     time.Time
}

// Age reports how long the position has been open as of now.
func (p Position) Age(now time.Time) time.Duration {
	return now.Sub(p.OpenTime)
}
