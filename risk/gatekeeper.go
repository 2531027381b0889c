package risk

import (
	"fmt"
	"time"

	"github.com/rustyeddy/fxbot/market"
)

// Stage identifies which pipeline check produced a rejection.
type Stage string

const (
	StageDailyCap    Stage = "daily_cap"
	StageOpenCap     Stage = "open_cap"
	StageMargin      Stage = "margin"
	StageCooldown    Stage = "cooldown"
	StageCorrelation Stage = "correlation"
)

// Decision is the gatekeeper's verdict on one trade intent. Rejections are
// expected outcomes, not errors; Stage and Reason exist for reporting.
type Decision struct {
	Allowed bool
	Stage   Stage
	Reason  string

	// Margin is the proposed trade's margin; TotalMargin the portfolio sum
	// across open positions. The sum is informational, never a gate.
	Margin      float64
	TotalMargin float64
}

func reject(stage Stage, format string, args ...any) Decision {
	return Decision{Stage: stage, Reason: fmt.Sprintf(format, args...)}
}

// Gatekeeper runs the sequential risk pipeline. It owns no positions itself;
// the caller passes the venue's open-position view, which must be consulted
// under the engine's serialization (one approval at a time).
type Gatekeeper struct {
	limits Limits
	states *StateStore
	corr   CorrelationTable
}

func NewGatekeeper(limits Limits, states *StateStore, corr CorrelationTable) *Gatekeeper {
	return &Gatekeeper{limits: limits, states: states, corr: corr}
}

func (g *Gatekeeper) Limits() Limits { return g.limits }

func (g *Gatekeeper) Correlations() CorrelationTable { return g.corr }

// Approve runs the pipeline in fixed order: daily cap, global open-position
// cap, per-trade margin cap, cooldown, correlation. The first failing stage
// short-circuits. No state mutates here; RecordTrade happens only after the
// venue confirms a fill.
func (g *Gatekeeper) Approve(symbol string, volume, price float64, now time.Time, open []market.Position) Decision {
	state := g.states.Get(symbol)

	if state.TradesToday >= g.limits.MaxTradesPerDay {
		return reject(StageDailyCap, "daily trade cap reached (%d/%d)",
			state.TradesToday, g.limits.MaxTradesPerDay)
	}

	if len(open) >= g.limits.MaxOpenPositions {
		return reject(StageOpenCap, "open positions %d at cap %d",
			len(open), g.limits.MaxOpenPositions)
	}

	margin := Margin(volume, price, g.limits.Leverage)
	total := TotalMargin(open, g.limits.Leverage)
	if margin > g.limits.MaxMarginPerTrade {
		d := reject(StageMargin, "trade margin %.2f exceeds per-trade cap %.2f",
			margin, g.limits.MaxMarginPerTrade)
		d.Margin = margin
		d.TotalMargin = total
		return d
	}

	if elapsed := now.Sub(state.LastTrade); elapsed < g.limits.Cooldown {
		return reject(StageCooldown, "cooldown active, %s remaining",
			(g.limits.Cooldown - elapsed).Round(time.Second))
	}

	for _, pos := range open {
		if g.corr.Correlated(symbol, pos.Instrument) {
			return reject(StageCorrelation, "open position in correlated pair %s",
				pos.Instrument)
		}
	}

	return Decision{Allowed: true, Margin: margin, TotalMargin: total}
}
