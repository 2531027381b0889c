package indicators

import (
	"fmt"
	"math"
)

// ADX is Wilder's average directional index over the window. Directional
// movement and true range are Wilder-smoothed, then the DX series is
// averaged the same way.
func ADX(candles []Candle, period int) (float64, error) {
	if len(candles) < 2*period+1 {
		return 0, fmt.Errorf("not enough candles: need %d, got %d", 2*period+1, len(candles))
	}

	n := len(candles) - 1
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	trs := make([]float64, n)

	for i := 1; i < len(candles); i++ {
		up := candles[i].High - candles[i-1].High
		down := candles[i-1].Low - candles[i].Low
		if up > down && up > 0 {
			plusDM[i-1] = up
		}
		if down > up && down > 0 {
			minusDM[i-1] = down
		}
		trs[i-1] = trueRange(candles[i], candles[i-1])
	}

	smooth := func(vals []float64) []float64 {
		out := make([]float64, 0, len(vals)-period+1)
		sum := 0.0
		for i := 0; i < period; i++ {
			sum += vals[i]
		}
		out = append(out, sum)
		for i := period; i < len(vals); i++ {
			sum = sum - sum/float64(period) + vals[i]
			out = append(out, sum)
		}
		return out
	}

	sTR := smooth(trs)
	sPlus := smooth(plusDM)
	sMinus := smooth(minusDM)

	dx := make([]float64, len(sTR))
	for i := range sTR {
		if sTR[i] == 0 {
			continue
		}
		pdi := 100 * sPlus[i] / sTR[i]
		mdi := 100 * sMinus[i] / sTR[i]
		if pdi+mdi == 0 {
			continue
		}
		dx[i] = 100 * math.Abs(pdi-mdi) / (pdi + mdi)
	}

	// Seed ADX with the mean of the first period DX values, then smooth.
	adx := 0.0
	for i := 0; i < period; i++ {
		adx += dx[i]
	}
	adx /= float64(period)
	for i := period; i < len(dx); i++ {
		adx = (adx*float64(period-1) + dx[i]) / float64(period)
	}
	return adx, nil
}
