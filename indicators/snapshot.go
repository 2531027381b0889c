package indicators

import (
	"fmt"

	"github.com/rustyeddy/fxbot/market"
)

// Compute assembles a full indicator snapshot from a candle window. The
// window must cover at least market.MinLookback bars; providers with less
// history report unavailable instead of serving a partial snapshot.
func Compute(candles []Candle) (market.Snapshot, error) {
	if len(candles) < market.MinLookback {
		return market.Snapshot{}, fmt.Errorf("%d bars < lookback %d: %w",
			len(candles), market.MinLookback, market.ErrUnavailable)
	}

	cs := closes(candles)
	var snap market.Snapshot
	var err error

	snap.Close = cs[len(cs)-1]

	if snap.EMA10, err = EMA(cs, 10); err != nil {
		return market.Snapshot{}, err
	}
	if snap.EMA50, err = EMA(cs, 50); err != nil {
		return market.Snapshot{}, err
	}
	if snap.EMA200, err = EMA(cs, 200); err != nil {
		return market.Snapshot{}, err
	}
	if snap.BBUpper, snap.BBLower, err = Bollinger(cs, 20, 2.0); err != nil {
		return market.Snapshot{}, err
	}
	if snap.RSI, err = RSI(cs, 14); err != nil {
		return market.Snapshot{}, err
	}
	if snap.Stoch, err = Stochastic(candles, 14, 3); err != nil {
		return market.Snapshot{}, err
	}

	atrs, err := ATRSeries(candles, 14)
	if err != nil {
		return market.Snapshot{}, err
	}
	snap.ATR = atrs[len(atrs)-1]
	sum := 0.0
	for _, v := range atrs {
		sum += v
	}
	snap.ATRMean = sum / float64(len(atrs))

	if snap.ADX, err = ADX(candles, 14); err != nil {
		return market.Snapshot{}, err
	}
	if snap.MACD, snap.MACDSignal, snap.PrevMACD, snap.PrevMACDSignal, err = MACD(cs, 12, 26, 9); err != nil {
		return market.Snapshot{}, err
	}
	if snap.High20, snap.Low20, err = HighLow(candles, 20); err != nil {
		return market.Snapshot{}, err
	}
	if snap.CloseMean50, err = SMA(cs, 50); err != nil {
		return market.Snapshot{}, err
	}
	if snap.CloseStd50, err = StdDev(cs, 50); err != nil {
		return market.Snapshot{}, err
	}

	return snap, nil
}
