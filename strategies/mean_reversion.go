package strategies

import "github.com/rustyeddy/fxbot/market"

// MeanReversion buys dips below the lower Bollinger band while the close
// still holds above the long-term trend line. Outside the session the close
// must undercut the band by an extra margin before it fires.
type MeanReversion struct {
	BandFactor float64 // escalated band multiplier, e.g. 0.999
}

func NewMeanReversion() *MeanReversion {
	return &MeanReversion{BandFactor: 0.999}
}

func (*MeanReversion) Name() string { return "mean_reversion" }

func (s *MeanReversion) Evaluate(in Input) (Intent, bool) {
	snap := in.Snap
	if in.Price >= snap.BBLower || in.Price <= snap.EMA200 {
		return Intent{}, false
	}
	strong := in.Price < snap.BBLower*s.BandFactor
	if !in.ActiveHour && !strong {
		return Intent{}, false
	}
	sl, tp := atrLegs(in, market.Long)
	return Intent{
		Side:       market.Long,
		StopLoss:   sl,
		TakeProfit: tp,
		Strong:     strong,
		Reason:     "price below lower band, above EMA200",
	}, true
}

// RSIMeanReversion buys oversold readings in an established uptrend.
type RSIMeanReversion struct {
	Oversold  float64
	Escalated float64
}

func NewRSIMeanReversion() *RSIMeanReversion {
	return &RSIMeanReversion{Oversold: 30, Escalated: 20}
}

func (*RSIMeanReversion) Name() string { return "rsi_mean_reversion" }

func (s *RSIMeanReversion) Evaluate(in Input) (Intent, bool) {
	snap := in.Snap
	if snap.RSI >= s.Oversold || in.Price <= snap.EMA200 {
		return Intent{}, false
	}
	strong := snap.RSI < s.Escalated
	if !in.ActiveHour && !strong {
		return Intent{}, false
	}
	sl, tp := atrLegs(in, market.Long)
	return Intent{
		Side:       market.Long,
		StopLoss:   sl,
		TakeProfit: tp,
		Strong:     strong,
		Reason:     "RSI oversold above EMA200",
	}, true
}

func init() {
	Register("mean_reversion", NewMeanReversion())
	Register("rsi_mean_reversion", NewRSIMeanReversion())
}
