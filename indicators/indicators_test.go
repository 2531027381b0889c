package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxbot/market"
)

func flatCandles(n int, price, rng float64) []Candle {
	out := make([]Candle, n)
	t := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = Candle{
			Time:  t.Add(time.Duration(i) * time.Minute),
			Open:  price,
			High:  price + rng/2,
			Low:   price - rng/2,
			Close: price,
		}
	}
	return out
}

func trendingCandles(n int) []Candle {
	out := make([]Candle, n)
	t := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	for i := range out {
		base := float64(i)
		out[i] = Candle{
			Time:  t.Add(time.Duration(i) * time.Minute),
			Open:  base,
			High:  base + 1,
			Low:   base,
			Close: base + 0.5,
		}
	}
	return out
}

func TestSMA(t *testing.T) {
	t.Parallel()

	got, err := SMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got, 1e-12)

	_, err = SMA([]float64{1, 2}, 3)
	assert.Error(t, err)

	_, err = SMA([]float64{1, 2, 3}, 0)
	assert.Error(t, err)
}

func TestStdDev(t *testing.T) {
	t.Parallel()

	got, err := StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 8)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got, 1e-12)

	got, err = StdDev([]float64{3, 3, 3, 3}, 4)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestEMA(t *testing.T) {
	t.Parallel()

	constant := make([]float64, 50)
	for i := range constant {
		constant[i] = 1.25
	}
	got, err := EMA(constant, 10)
	require.NoError(t, err)
	assert.InDelta(t, 1.25, got, 1e-12)

	rising := make([]float64, 50)
	for i := range rising {
		rising[i] = float64(i)
	}
	got, err = EMA(rising, 10)
	require.NoError(t, err)
	assert.Less(t, got, rising[len(rising)-1], "EMA lags a rising series")
	assert.Greater(t, got, rising[len(rising)-10])

	_, err = EMA([]float64{1, 2}, 10)
	assert.Error(t, err)
}

func TestBollinger(t *testing.T) {
	t.Parallel()

	constant := make([]float64, 20)
	for i := range constant {
		constant[i] = 1.10
	}
	upper, lower, err := Bollinger(constant, 20, 2.0)
	require.NoError(t, err)
	assert.InDelta(t, 1.10, upper, 1e-12)
	assert.InDelta(t, 1.10, lower, 1e-12)

	varied := append(constant[:19:19], 1.20)
	upper, lower, err = Bollinger(varied, 20, 2.0)
	require.NoError(t, err)
	assert.Greater(t, upper, lower)
}

func TestRSI_Extremes(t *testing.T) {
	t.Parallel()

	rising := make([]float64, 30)
	for i := range rising {
		rising[i] = float64(i)
	}
	got, err := RSI(rising, 14)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, got, 1e-12, "all gains, no losses")

	falling := make([]float64, 30)
	for i := range falling {
		falling[i] = float64(len(falling) - i)
	}
	got, err = RSI(falling, 14)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, got, 1e-12)

	_, err = RSI(rising[:10], 14)
	assert.Error(t, err)
}

func TestStochastic(t *testing.T) {
	t.Parallel()

	// A dead-flat window reads neutral.
	got, err := Stochastic(flatCandles(20, 1.10, 0), 14, 3)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, got, 1e-12)

	// Closing on the high of every window pins %K at the top.
	got, err = Stochastic(trendingCandles(20), 14, 3)
	require.NoError(t, err)
	assert.Greater(t, got, 40.0)

	_, err = Stochastic(flatCandles(10, 1.10, 0), 14, 3)
	assert.Error(t, err)
}

func TestATR_ConstantRange(t *testing.T) {
	t.Parallel()

	got, err := ATR(flatCandles(30, 100, 1.0), 14)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-12)

	series, err := ATRSeries(flatCandles(30, 100, 1.0), 14)
	require.NoError(t, err)
	assert.Len(t, series, 29)

	_, err = ATR(flatCandles(10, 100, 1.0), 14)
	assert.Error(t, err)
}

func TestMACD(t *testing.T) {
	t.Parallel()

	constant := make([]float64, 60)
	for i := range constant {
		constant[i] = 1.10
	}
	line, sig, prevLine, prevSig, err := MACD(constant, 12, 26, 9)
	require.NoError(t, err)
	assert.Zero(t, line)
	assert.Zero(t, sig)
	assert.Zero(t, prevLine)
	assert.Zero(t, prevSig)

	// A rising series keeps the fast EMA above the slow one.
	rising := make([]float64, 60)
	for i := range rising {
		rising[i] = 1.10 + float64(i)*0.001
	}
	line, sig, _, _, err = MACD(rising, 12, 26, 9)
	require.NoError(t, err)
	assert.Greater(t, line, 0.0)
	assert.Greater(t, sig, 0.0)

	_, _, _, _, err = MACD(constant[:20], 12, 26, 9)
	assert.Error(t, err)
}

func TestHighLow(t *testing.T) {
	t.Parallel()

	candles := trendingCandles(30)
	high, low, err := HighLow(candles, 20)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, high, 1e-12, "highest high of the last 20 bars")
	assert.InDelta(t, 10.0, low, 1e-12)

	_, _, err = HighLow(candles[:5], 20)
	assert.Error(t, err)
}

func TestADX_StrongTrend(t *testing.T) {
	t.Parallel()

	// Monotone rise: all directional movement is positive, DX pegs at 100.
	got, err := ADX(trendingCandles(60), 14)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, got, 1e-9)

	_, err = ADX(trendingCandles(20), 14)
	assert.Error(t, err)
}

func TestCompute(t *testing.T) {
	t.Parallel()

	// A gentle deterministic oscillation around 1.0850.
	candles := make([]Candle, market.MinLookback)
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	price := 1.0850
	for i := range candles {
		next := 1.0850 + 0.0020*math.Sin(float64(i)/7)
		hi := math.Max(price, next) + 0.0003
		lo := math.Min(price, next) - 0.0003
		candles[i] = Candle{
			Time:  start.Add(time.Duration(i) * time.Minute),
			Open:  price,
			High:  hi,
			Low:   lo,
			Close: next,
		}
		price = next
	}

	snap, err := Compute(candles)
	require.NoError(t, err)

	assert.InDelta(t, candles[len(candles)-1].Close, snap.Close, 1e-12)
	assert.Greater(t, snap.ATR, 0.0)
	assert.Greater(t, snap.ATRMean, 0.0)
	assert.Greater(t, snap.BBUpper, snap.BBLower)
	assert.Greater(t, snap.High20, snap.Low20)
	assert.True(t, snap.RSI >= 0 && snap.RSI <= 100)
	assert.True(t, snap.Stoch >= 0 && snap.Stoch <= 100)
	assert.Greater(t, snap.EMA200, 1.0)
	assert.Greater(t, snap.CloseStd50, 0.0)
}

func TestCompute_ShortWindow(t *testing.T) {
	t.Parallel()

	_, err := Compute(flatCandles(market.MinLookback-1, 1.10, 0.001))
	assert.ErrorIs(t, err, market.ErrUnavailable)
}
