package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPipSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0001, PipSize("EURUSD"))
	assert.Equal(t, 0.01, PipSize("USDJPY"))
	assert.Equal(t, 0.01, PipSize("GBPJPY"))
	assert.Equal(t, 0.0001, PipSize("USDINR"))
}

func TestInstrumentsTableMatchesPipSize(t *testing.T) {
	t.Parallel()

	for sym, meta := range Instruments {
		assert.Equal(t, PipSize(sym), meta.PipSize, sym)
	}
}

func TestSideString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "BUY", Long.String())
	assert.Equal(t, "SELL", Short.String())
}

func TestTickMidSpread(t *testing.T) {
	t.Parallel()

	tick := Tick{Instrument: "EURUSD", Bid: 1.0849, Ask: 1.0851}
	assert.InDelta(t, 1.0850, tick.Mid(), 1e-12)
	assert.InDelta(t, 0.0002, tick.Spread(), 1e-12)
}

func TestSnapshotZScore(t *testing.T) {
	t.Parallel()

	s := Snapshot{Close: 83.0, CloseMean50: 83.5, CloseStd50: 0.2}
	assert.InDelta(t, -2.5, s.ZScore(), 1e-12)

	s.CloseStd50 = 0
	assert.Zero(t, s.ZScore(), "flat series reads neutral")
}

func TestPositionAge(t *testing.T) {
	t.Parallel()

	opened := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	p := Position{OpenTime: opened}
	assert.Equal(t, 49*time.Hour, p.Age(opened.Add(49*time.Hour)))
}
