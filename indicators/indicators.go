// Package indicators computes the technical values a snapshot carries from
// closed candles. Batch functions over a candle window; deterministic, no
// retained state.
package indicators

import (
	"fmt"
	"math"
	"time"
)

type Candle struct {
	Time  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

func closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// SMA is the simple moving average of the last period values.
func SMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(values) < period {
		return 0, fmt.Errorf("not enough values: need %d, got %d", period, len(values))
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period), nil
}

// StdDev is the population standard deviation of the last period values.
func StdDev(values []float64, period int) (float64, error) {
	mean, err := SMA(values, period)
	if err != nil {
		return 0, err
	}
	var sq float64
	for _, v := range values[len(values)-period:] {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(period)), nil
}

// emaSeries returns the EMA at every index, seeded from the first value.
func emaSeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	k := 2.0 / float64(period+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = (values[i]-out[i-1])*k + out[i-1]
	}
	return out
}

// EMA is the exponential moving average over the full window.
func EMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(values) < period {
		return 0, fmt.Errorf("not enough values: need %d, got %d", period, len(values))
	}
	s := emaSeries(values, period)
	return s[len(s)-1], nil
}

// Bollinger returns the 20-period band pair at 2 standard deviations.
func Bollinger(values []float64, period int, width float64) (upper, lower float64, err error) {
	mean, err := SMA(values, period)
	if err != nil {
		return 0, 0, err
	}
	sd, err := StdDev(values, period)
	if err != nil {
		return 0, 0, err
	}
	return mean + width*sd, mean - width*sd, nil
}

// RSI is Wilder's relative strength index.
func RSI(values []float64, period int) (float64, error) {
	if len(values) < period+1 {
		return 0, fmt.Errorf("not enough values: need %d, got %d", period+1, len(values))
	}
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		d := values[i] - values[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(values); i++ {
		d := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100, nil
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), nil
}

// Stochastic is the %K oscillator over period bars, smoothed over smooth bars.
func Stochastic(candles []Candle, period, smooth int) (float64, error) {
	if len(candles) < period+smooth-1 {
		return 0, fmt.Errorf("not enough candles: need %d, got %d", period+smooth-1, len(candles))
	}
	raw := make([]float64, 0, smooth)
	for s := 0; s < smooth; s++ {
		end := len(candles) - s
		window := candles[end-period : end]
		hi, lo := window[0].High, window[0].Low
		for _, c := range window[1:] {
			hi = math.Max(hi, c.High)
			lo = math.Min(lo, c.Low)
		}
		if hi == lo {
			raw = append(raw, 50)
			continue
		}
		raw = append(raw, (window[period-1].Close-lo)/(hi-lo)*100)
	}
	sum := 0.0
	for _, v := range raw {
		sum += v
	}
	return sum / float64(smooth), nil
}

func trueRange(cur, prev Candle) float64 {
	hl := cur.High - cur.Low
	hc := math.Abs(cur.High - prev.Close)
	lc := math.Abs(cur.Low - prev.Close)
	return math.Max(hl, math.Max(hc, lc))
}

// ATRSeries returns Wilder-smoothed ATR values aligned to candles[1:].
func ATRSeries(candles []Candle, period int) ([]float64, error) {
	if len(candles) < period+1 {
		return nil, fmt.Errorf("not enough candles: need %d, got %d", period+1, len(candles))
	}
	trs := make([]float64, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		trs[i-1] = trueRange(candles[i], candles[i-1])
	}

	out := make([]float64, len(trs))
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += trs[i]
		out[i] = sum / float64(i+1)
	}
	atr := sum / float64(period)
	out[period-1] = atr
	for i := period; i < len(trs); i++ {
		atr = (atr*float64(period-1) + trs[i]) / float64(period)
		out[i] = atr
	}
	return out, nil
}

// ATR is the latest Wilder average true range.
func ATR(candles []Candle, period int) (float64, error) {
	s, err := ATRSeries(candles, period)
	if err != nil {
		return 0, err
	}
	return s[len(s)-1], nil
}

// MACD returns the convergence line and its signal line for the last two
// bars, so callers can detect the cross event.
func MACD(values []float64, fast, slow, signal int) (line, sig, prevLine, prevSig float64, err error) {
	if len(values) < slow+signal {
		return 0, 0, 0, 0, fmt.Errorf("not enough values: need %d, got %d", slow+signal, len(values))
	}
	fastS := emaSeries(values, fast)
	slowS := emaSeries(values, slow)
	macd := make([]float64, len(values))
	for i := range values {
		macd[i] = fastS[i] - slowS[i]
	}
	sigS := emaSeries(macd, signal)
	n := len(values)
	return macd[n-1], sigS[n-1], macd[n-2], sigS[n-2], nil
}

// HighLow returns the highest high and lowest low of the last period bars.
func HighLow(candles []Candle, period int) (high, low float64, err error) {
	if len(candles) < period {
		return 0, 0, fmt.Errorf("not enough candles: need %d, got %d", period, len(candles))
	}
	window := candles[len(candles)-period:]
	high, low = window[0].High, window[0].Low
	for _, c := range window[1:] {
		high = math.Max(high, c.High)
		low = math.Min(low, c.Low)
	}
	return high, low, nil
}
