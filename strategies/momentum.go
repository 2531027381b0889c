package strategies

import "github.com/rustyeddy/fxbot/market"

// MACDMomentum buys the bar where the MACD line crosses above its signal
// line. The previous bar's pair is required so the entry fires on the cross
// event itself, not on every bar the lines stay crossed.
type MACDMomentum struct {
	// MinGap is the escalated MACD-over-signal spread required out of session.
	MinGap float64
}

func NewMACDMomentum() *MACDMomentum {
	return &MACDMomentum{MinGap: 0.0005}
}

func (*MACDMomentum) Name() string { return "momentum" }

func (s *MACDMomentum) Evaluate(in Input) (Intent, bool) {
	snap := in.Snap
	crossed := snap.MACD > snap.MACDSignal && snap.PrevMACD <= snap.PrevMACDSignal
	if !crossed {
		return Intent{}, false
	}
	strong := snap.MACD-snap.MACDSignal > s.MinGap
	if !in.ActiveHour && !strong {
		return Intent{}, false
	}
	sl, tp := atrLegs(in, market.Long)
	return Intent{
		Side:       market.Long,
		StopLoss:   sl,
		TakeProfit: tp,
		Strong:     strong,
		Reason:     "MACD crossed above signal",
	}, true
}

// TrendFollowing buys when the fast EMA leads the slow EMA and ADX confirms
// the trend has strength.
type TrendFollowing struct {
	ADXThreshold float64
	Escalated    float64
}

func NewTrendFollowing() *TrendFollowing {
	return &TrendFollowing{ADXThreshold: 20, Escalated: 30}
}

func (*TrendFollowing) Name() string { return "trend_following" }

func (s *TrendFollowing) Evaluate(in Input) (Intent, bool) {
	snap := in.Snap
	if snap.EMA10 <= snap.EMA50 || snap.ADX <= s.ADXThreshold {
		return Intent{}, false
	}
	strong := snap.ADX > s.Escalated
	if !in.ActiveHour && !strong {
		return Intent{}, false
	}
	sl, tp := atrLegs(in, market.Long)
	return Intent{
		Side:       market.Long,
		StopLoss:   sl,
		TakeProfit: tp,
		Strong:     strong,
		Reason:     "EMA10 above EMA50 with ADX confirmation",
	}, true
}

func init() {
	Register("momentum", NewMACDMomentum())
	Register("trend_following", NewTrendFollowing())
}
