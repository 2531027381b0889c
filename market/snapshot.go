package market

import (
	"context"
	"errors"
)

// MinLookback is the minimum bar history a provider must have before it can
// serve a snapshot. Shorter histories leave the slow indicators unseeded.
const MinLookback = 200

// ErrUnavailable reports that a provider could not serve a usable snapshot or
// tick this cycle. Callers skip the instrument and try again next tick.
var ErrUnavailable = errors.New("market data unavailable")

// Snapshot is one instrument's indicator state at a single point in time.
// It is computed upstream and consumed read-only by strategy evaluation.
type Snapshot struct {
	Close float64

	EMA10  float64
	EMA50  float64
	EMA200 float64

	BBUpper float64
	BBLower float64

	RSI   float64
	Stoch float64

	ATR     float64
	ATRMean float64 // mean ATR over the lookback window

	ADX float64

	MACD           float64
	MACDSignal     float64
	PrevMACD       float64 // previous bar, for cross detection
	PrevMACDSignal float64

	High20 float64
	Low20  float64

	CloseMean50 float64
	CloseStd50  float64
}

// ZScore is the standardized distance of the close from its 50-bar mean.
func (s Snapshot) ZScore() float64 {
	if s.CloseStd50 == 0 {
		return 0
	}
	return (s.Close - s.CloseMean50) / s.CloseStd50
}

// SnapshotProvider computes indicator snapshots from venue history.
// Implementations return ErrUnavailable when fewer than MinLookback bars are
// on hand for the requested instrument and timeframe.
type SnapshotProvider interface {
	Snapshot(ctx context.Context, symbol, timeframe string) (Snapshot, error)
}
