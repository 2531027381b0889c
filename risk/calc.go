package risk

import (
	"math"

	"github.com/rustyeddy/fxbot/market"
)

// Margin returns the account-currency margin reserved for a position of the
// given volume (lots) at the given price.
func Margin(volume, price, leverage float64) float64 {
	notional := volume * market.ContractSize * price
	return notional / leverage
}

// TotalMargin sums the margin across open positions, valued at their open
// prices. Diagnostic only; the gatekeeper caps single trades, not the sum.
func TotalMargin(positions []market.Position, leverage float64) float64 {
	var total float64
	for _, p := range positions {
		total += Margin(p.Volume, p.OpenPrice, leverage)
	}
	return total
}

// LotSize returns the largest volume whose margin stays within maxMargin at
// the current price, rounded down to two decimals and never below the minimum
// tradable increment.
func LotSize(maxMargin, leverage, price float64) float64 {
	lot := (maxMargin * leverage) / (market.ContractSize * price)
	lot = math.Floor(lot*100) / 100
	if lot < market.MinLot {
		return market.MinLot
	}
	return lot
}
