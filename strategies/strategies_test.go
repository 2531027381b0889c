package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxbot/market"
)

func input(price float64, snap market.Snapshot, active bool) Input {
	return Input{
		Price:      price,
		Snap:       snap,
		ActiveHour: active,
		PipSize:    0.0001,
		RewardRisk: 1.5,
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	want := []string{
		"breakout", "hft_scalping", "mean_reversion", "momentum",
		"rsi_mean_reversion", "scalping", "stat_arb", "trend_following",
		"volatility_breakout",
	}
	assert.Equal(t, want, Tags())

	s, ok := Get("mean_reversion")
	require.True(t, ok)
	assert.Equal(t, "mean_reversion", s.Name())

	_, ok = Get("no_such_strategy")
	assert.False(t, ok)
}

func TestMeanReversion_InsideActiveHours(t *testing.T) {
	t.Parallel()

	snap := market.Snapshot{BBLower: 1.0960, EMA200: 1.0900, ATR: 0.0010}
	intent, ok := NewMeanReversion().Evaluate(input(1.0950, snap, true))

	require.True(t, ok)
	assert.Equal(t, market.Long, intent.Side)
	// stop distance = ATR * 100 pips, target scaled by the 1.5 ratio
	dist := 0.0010 * 100 * 0.0001
	assert.InDelta(t, 1.0950-dist, intent.StopLoss, 1e-12)
	assert.InDelta(t, 1.0950+dist*1.5, intent.TakeProfit, 1e-12)
}

func TestMeanReversion_OutsideActiveHoursNeedsEscalation(t *testing.T) {
	t.Parallel()

	snap := market.Snapshot{BBLower: 1.0960, EMA200: 1.0900, ATR: 0.0010}

	// 1.0958 is below the band but not below 1.0960*0.999 = 1.09490...
	_, ok := NewMeanReversion().Evaluate(input(1.0958, snap, false))
	assert.False(t, ok)

	// A deep enough undercut fires and is flagged strong.
	intent, ok := NewMeanReversion().Evaluate(input(1.0940, snap, false))
	require.True(t, ok)
	assert.True(t, intent.Strong)
}

func TestMeanReversion_BelowTrendLineNoIntent(t *testing.T) {
	t.Parallel()

	snap := market.Snapshot{BBLower: 1.0960, EMA200: 1.0955, ATR: 0.0010}
	_, ok := NewMeanReversion().Evaluate(input(1.0950, snap, true))
	assert.False(t, ok)
}

func TestScalper_BothSides(t *testing.T) {
	t.Parallel()

	s := NewScalper()

	long, ok := s.Evaluate(input(151.50, market.Snapshot{RSI: 25, Stoch: 15, ATR: 0.05}, true))
	require.True(t, ok)
	assert.Equal(t, market.Long, long.Side)

	short, ok := s.Evaluate(input(151.50, market.Snapshot{RSI: 75, Stoch: 85, ATR: 0.05}, true))
	require.True(t, ok)
	assert.Equal(t, market.Short, short.Side)

	// Short legs sit above/below the price with the tight fixed multipliers.
	assert.Greater(t, short.StopLoss, 151.50)
	assert.Less(t, short.TakeProfit, 151.50)
}

func TestScalper_EscalationOutsideHours(t *testing.T) {
	t.Parallel()

	s := NewScalper()

	_, ok := s.Evaluate(input(151.50, market.Snapshot{RSI: 25, Stoch: 15, ATR: 0.05}, false))
	assert.False(t, ok, "base oversold is not enough out of session")

	intent, ok := s.Evaluate(input(151.50, market.Snapshot{RSI: 15, Stoch: 5, ATR: 0.05}, false))
	require.True(t, ok)
	assert.True(t, intent.Strong)
}

func TestHFTScalper_LongOnly(t *testing.T) {
	t.Parallel()

	s := NewHFTScalper()
	_, ok := s.Evaluate(input(191.60, market.Snapshot{RSI: 75, Stoch: 85, ATR: 0.05}, true))
	assert.False(t, ok, "hft variant never shorts")

	intent, ok := s.Evaluate(input(191.60, market.Snapshot{RSI: 25, Stoch: 15, ATR: 0.10}, true))
	require.True(t, ok)
	// 0.3/0.6 ATR legs
	assert.InDelta(t, 191.60-0.10*0.3*0.0001, intent.StopLoss, 1e-9)
	assert.InDelta(t, 191.60+0.10*0.6*0.0001, intent.TakeProfit, 1e-9)
}

func TestMACDMomentum_RequiresCrossEvent(t *testing.T) {
	t.Parallel()

	s := NewMACDMomentum()

	// Already crossed on the previous bar: no entry.
	stale := market.Snapshot{MACD: 0.002, MACDSignal: 0.001, PrevMACD: 0.002, PrevMACDSignal: 0.001, ATR: 0.001}
	_, ok := s.Evaluate(input(1.2650, stale, true))
	assert.False(t, ok)

	// Fresh cross fires.
	fresh := market.Snapshot{MACD: 0.002, MACDSignal: 0.001, PrevMACD: 0.0005, PrevMACDSignal: 0.001, ATR: 0.001}
	intent, ok := s.Evaluate(input(1.2650, fresh, true))
	require.True(t, ok)
	assert.Equal(t, market.Long, intent.Side)
	assert.True(t, intent.Strong, "gap 0.001 exceeds the 0.0005 escalation")

	// Out of session a narrow cross is filtered.
	narrow := market.Snapshot{MACD: 0.0012, MACDSignal: 0.001, PrevMACD: 0.0005, PrevMACDSignal: 0.001, ATR: 0.001}
	_, ok = s.Evaluate(input(1.2650, narrow, false))
	assert.False(t, ok)
}

func TestBreakout_SizesOffRange(t *testing.T) {
	t.Parallel()

	snap := market.Snapshot{High20: 0.9050, Low20: 0.9010, ATR: 0.001}
	intent, ok := NewBreakout().Evaluate(input(0.9060, snap, true))

	require.True(t, ok)
	// half the 40-pip range for the stop, 1.5x that for the target
	assert.InDelta(t, 0.9060-0.0020, intent.StopLoss, 1e-9)
	assert.InDelta(t, 0.9060+0.0030, intent.TakeProfit, 1e-9)

	_, ok = NewBreakout().Evaluate(input(0.9040, snap, true))
	assert.False(t, ok, "no breakout below the 20-bar high")
}

func TestVolatilityBreakout_RequiresElevatedATR(t *testing.T) {
	t.Parallel()

	s := NewVolatilityBreakout()

	quiet := market.Snapshot{High20: 0.6050, Low20: 0.6010, ATR: 0.0008, ATRMean: 0.0010}
	_, ok := s.Evaluate(input(0.6060, quiet, true))
	assert.False(t, ok)

	lively := market.Snapshot{High20: 0.6050, Low20: 0.6010, ATR: 0.0012, ATRMean: 0.0010}
	_, ok = s.Evaluate(input(0.6060, lively, true))
	assert.True(t, ok)

	// Out of session demands 1.5x the mean.
	_, ok = s.Evaluate(input(0.6060, lively, false))
	assert.False(t, ok)

	spiking := market.Snapshot{High20: 0.6050, Low20: 0.6010, ATR: 0.0016, ATRMean: 0.0010}
	intent, ok := s.Evaluate(input(0.6060, spiking, false))
	require.True(t, ok)
	assert.True(t, intent.Strong)
}

func TestTrendFollowing(t *testing.T) {
	t.Parallel()

	s := NewTrendFollowing()

	weak := market.Snapshot{EMA10: 1.3620, EMA50: 1.3600, ADX: 15, ATR: 0.001}
	_, ok := s.Evaluate(input(1.3650, weak, true))
	assert.False(t, ok, "ADX below threshold")

	trending := market.Snapshot{EMA10: 1.3620, EMA50: 1.3600, ADX: 25, ATR: 0.001}
	_, ok = s.Evaluate(input(1.3650, trending, true))
	assert.True(t, ok)

	_, ok = s.Evaluate(input(1.3650, trending, false))
	assert.False(t, ok, "out of session needs ADX above 30")

	strong := market.Snapshot{EMA10: 1.3620, EMA50: 1.3600, ADX: 35, ATR: 0.001}
	intent, ok := s.Evaluate(input(1.3650, strong, false))
	require.True(t, ok)
	assert.True(t, intent.Strong)
}

func TestRSIMeanReversion(t *testing.T) {
	t.Parallel()

	s := NewRSIMeanReversion()

	snap := market.Snapshot{RSI: 25, EMA200: 0.6500, ATR: 0.001}
	_, ok := s.Evaluate(input(0.6550, snap, true))
	assert.True(t, ok)

	_, ok = s.Evaluate(input(0.6550, snap, false))
	assert.False(t, ok, "RSI 25 is not escalated")

	deep := market.Snapshot{RSI: 15, EMA200: 0.6500, ATR: 0.001}
	intent, ok := s.Evaluate(input(0.6550, deep, false))
	require.True(t, ok)
	assert.True(t, intent.Strong)

	below := market.Snapshot{RSI: 15, EMA200: 0.6600, ATR: 0.001}
	_, ok = s.Evaluate(input(0.6550, below, true))
	assert.False(t, ok, "downtrend filters the entry")
}

func TestStatArb(t *testing.T) {
	t.Parallel()

	s := NewStatArb()

	// z = (83.0 - 83.5) / 0.2 = -2.5
	snap := market.Snapshot{Close: 83.0, CloseMean50: 83.5, CloseStd50: 0.2, ATR: 0.05}
	intent, ok := s.Evaluate(input(83.0, snap, true))
	require.True(t, ok)
	assert.Equal(t, market.Long, intent.Side)
	assert.False(t, intent.Strong)

	// -2.5 is not enough out of session; -3 is the bar.
	_, ok = s.Evaluate(input(83.0, snap, false))
	assert.False(t, ok)

	deep := market.Snapshot{Close: 82.8, CloseMean50: 83.5, CloseStd50: 0.2, ATR: 0.05}
	intent, ok = s.Evaluate(input(82.8, deep, false))
	require.True(t, ok)
	assert.True(t, intent.Strong)

	flat := market.Snapshot{Close: 83.4, CloseMean50: 83.5, CloseStd50: 0.2, ATR: 0.05}
	_, ok = s.Evaluate(input(83.4, flat, true))
	assert.False(t, ok)
}
