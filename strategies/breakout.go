package strategies

import "github.com/rustyeddy/fxbot/market"

// Breakout buys a close above the 20-bar high, sizing both legs off the
// breakout range rather than ATR.
type Breakout struct {
	// BufferFactor is the escalated breakout multiplier, e.g. 1.001.
	BufferFactor float64
}

func NewBreakout() *Breakout {
	return &Breakout{BufferFactor: 1.001}
}

func (*Breakout) Name() string { return "breakout" }

func (s *Breakout) Evaluate(in Input) (Intent, bool) {
	snap := in.Snap
	if in.Price <= snap.High20 {
		return Intent{}, false
	}
	strong := in.Price > snap.High20*s.BufferFactor
	if !in.ActiveHour && !strong {
		return Intent{}, false
	}
	rng := snap.High20 - snap.Low20
	return Intent{
		Side:       market.Long,
		StopLoss:   in.Price - rng*0.5,
		TakeProfit: in.Price + rng*0.5*in.RewardRisk,
		Strong:     strong,
		Reason:     "close above 20-bar high",
	}, true
}

// VolatilityBreakout is a breakout that additionally requires ATR to be
// elevated relative to its lookback mean.
type VolatilityBreakout struct {
	// EscalationFactor is the ATR-over-mean multiple required out of session.
	EscalationFactor float64
}

func NewVolatilityBreakout() *VolatilityBreakout {
	return &VolatilityBreakout{EscalationFactor: 1.5}
}

func (*VolatilityBreakout) Name() string { return "volatility_breakout" }

func (s *VolatilityBreakout) Evaluate(in Input) (Intent, bool) {
	snap := in.Snap
	if in.Price <= snap.High20 || snap.ATR <= snap.ATRMean {
		return Intent{}, false
	}
	strong := snap.ATR > snap.ATRMean*s.EscalationFactor
	if !in.ActiveHour && !strong {
		return Intent{}, false
	}
	sl, tp := atrLegs(in, market.Long)
	return Intent{
		Side:       market.Long,
		StopLoss:   sl,
		TakeProfit: tp,
		Strong:     strong,
		Reason:     "breakout with elevated ATR",
	}, true
}

func init() {
	Register("breakout", NewBreakout())
	Register("volatility_breakout", NewVolatilityBreakout())
}
