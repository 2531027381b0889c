package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxbot/market"
)

func testGatekeeper(t *testing.T, limits Limits) (*Gatekeeper, *StateStore) {
	t.Helper()
	states := NewStateStore([]string{"EURUSD", "USDCHF", "GBPUSD", "GBPJPY"}, time.Now())
	return NewGatekeeper(limits, states, DefaultCorrelations()), states
}

func TestApprove_AllStagesPass(t *testing.T) {
	t.Parallel()

	gate, _ := testGatekeeper(t, DefaultLimits())
	d := gate.Approve("EURUSD", 0.5, 1.0850, time.Now(), nil)

	assert.True(t, d.Allowed)
	assert.Empty(t, d.Stage)
	assert.InDelta(t, 271.25, d.Margin, 1e-9)
	assert.Zero(t, d.TotalMargin)
}

func TestApprove_DailyCap(t *testing.T) {
	t.Parallel()

	limits := DefaultLimits()
	gate, states := testGatekeeper(t, limits)

	now := time.Now()
	for i := 0; i < limits.MaxTradesPerDay; i++ {
		states.RecordTrade("EURUSD", now)
	}

	// Rejected at stage 1 no matter how strong the signal or how stale the
	// cooldown; later stages never run.
	d := gate.Approve("EURUSD", 0.01, 1.0850, now.Add(24*time.Hour), nil)
	assert.False(t, d.Allowed)
	assert.Equal(t, StageDailyCap, d.Stage)
}

func TestApprove_OpenPositionCap(t *testing.T) {
	t.Parallel()

	limits := DefaultLimits()
	limits.MaxOpenPositions = 2
	gate, _ := testGatekeeper(t, limits)

	open := []market.Position{
		{Instrument: "USDCAD", Volume: 0.1, OpenPrice: 1.36},
		{Instrument: "AUDUSD", Volume: 0.1, OpenPrice: 0.65},
	}
	d := gate.Approve("EURUSD", 0.1, 1.0850, time.Now(), open)
	assert.False(t, d.Allowed)
	assert.Equal(t, StageOpenCap, d.Stage)
}

func TestApprove_MarginCap(t *testing.T) {
	t.Parallel()

	limits := DefaultLimits()
	limits.MaxMarginPerTrade = 100
	gate, _ := testGatekeeper(t, limits)

	// 1 lot EURUSD at 1:200 needs 542.50, well past the 100 cap.
	d := gate.Approve("EURUSD", 1.0, 1.0850, time.Now(), nil)
	require.False(t, d.Allowed)
	assert.Equal(t, StageMargin, d.Stage)
	assert.InDelta(t, 542.50, d.Margin, 1e-9)
}

func TestApprove_MarginCap_PortfolioSumDoesNotGate(t *testing.T) {
	t.Parallel()

	limits := DefaultLimits()
	gate, _ := testGatekeeper(t, limits)

	// Open margin far beyond any single-trade cap; only the proposed
	// trade's own margin is gated.
	open := []market.Position{
		{Instrument: "USDCAD", Volume: 40, OpenPrice: 1.36},
		{Instrument: "AUDUSD", Volume: 40, OpenPrice: 0.65},
	}
	d := gate.Approve("EURUSD", 0.5, 1.0850, time.Now(), open)
	assert.True(t, d.Allowed)
	assert.Greater(t, d.TotalMargin, limits.MaxMarginPerTrade)
}

func TestApprove_Cooldown(t *testing.T) {
	t.Parallel()

	limits := DefaultLimits()
	gate, states := testGatekeeper(t, limits)

	now := time.Now()
	states.RecordTrade("EURUSD", now)

	tests := []struct {
		name    string
		at      time.Time
		allowed bool
	}{
		{"immediately after", now.Add(time.Second), false},
		{"one second before expiry", now.Add(limits.Cooldown - time.Second), false},
		{"exactly at expiry", now.Add(limits.Cooldown), true},
		{"after expiry", now.Add(limits.Cooldown + time.Minute), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := gate.Approve("EURUSD", 0.01, 1.0850, tt.at, nil)
			if tt.allowed {
				assert.True(t, d.Allowed, d.Reason)
			} else {
				assert.False(t, d.Allowed)
				assert.Equal(t, StageCooldown, d.Stage)
			}
		})
	}
}

func TestApprove_Correlation(t *testing.T) {
	t.Parallel()

	gate, _ := testGatekeeper(t, DefaultLimits())

	open := []market.Position{{Instrument: "USDCHF", Volume: 0.1, OpenPrice: 0.90}}

	d := gate.Approve("EURUSD", 0.1, 1.0850, time.Now(), open)
	assert.False(t, d.Allowed)
	assert.Equal(t, StageCorrelation, d.Stage)

	// GBPUSD is not paired with USDCHF; the stage never rejects it.
	d = gate.Approve("GBPUSD", 0.1, 1.2650, time.Now(), open)
	assert.True(t, d.Allowed)

	// Unlisted instruments always pass this stage.
	d = gate.Approve("USDCAD", 0.1, 1.3600, time.Now(), open)
	assert.True(t, d.Allowed)
}

func TestApprove_StageOrder(t *testing.T) {
	t.Parallel()

	// Set up a state that would fail every stage; the earliest one in the
	// pipeline must win.
	limits := DefaultLimits()
	limits.MaxTradesPerDay = 1
	limits.MaxOpenPositions = 1
	limits.MaxMarginPerTrade = 1

	gate, states := testGatekeeper(t, limits)
	now := time.Now()
	states.RecordTrade("EURUSD", now)

	open := []market.Position{{Instrument: "USDCHF", Volume: 10, OpenPrice: 0.90}}

	d := gate.Approve("EURUSD", 10, 1.0850, now, open)
	assert.Equal(t, StageDailyCap, d.Stage)
}

func TestCorrelationTable(t *testing.T) {
	t.Parallel()

	table := NewCorrelationTable([][2]string{{"EURUSD", "USDCHF"}})
	assert.True(t, table.Correlated("EURUSD", "USDCHF"))
	assert.True(t, table.Correlated("USDCHF", "EURUSD"), "table is symmetric")
	assert.False(t, table.Correlated("EURUSD", "GBPUSD"))
}
