package strategies

import "github.com/rustyeddy/fxbot/market"

// Scalper trades RSI/stochastic extremes with tight, fixed ATR-multiple legs
// instead of the process-wide reward-to-risk ratio. The same shape serves the
// plain and the high-frequency variant; only the multipliers differ.
type Scalper struct {
	name   string
	SLMult float64
	TPMult float64

	// AllowShort enables the overbought (sell) side.
	AllowShort bool
}

func NewScalper() *Scalper {
	return &Scalper{name: "scalping", SLMult: 0.5, TPMult: 1.0, AllowShort: true}
}

func NewHFTScalper() *Scalper {
	return &Scalper{name: "hft_scalping", SLMult: 0.3, TPMult: 0.6}
}

func (s *Scalper) Name() string { return s.name }

func (s *Scalper) Evaluate(in Input) (Intent, bool) {
	snap := in.Snap

	if snap.RSI < 30 && snap.Stoch < 20 {
		strong := snap.RSI < 20 && snap.Stoch < 10
		if !in.ActiveHour && !strong {
			return Intent{}, false
		}
		return Intent{
			Side:       market.Long,
			StopLoss:   in.Price - snap.ATR*s.SLMult*in.PipSize,
			TakeProfit: in.Price + snap.ATR*s.TPMult*in.PipSize,
			Strong:     strong,
			Reason:     "RSI and stochastic oversold",
		}, true
	}

	if s.AllowShort && snap.RSI > 70 && snap.Stoch > 80 {
		strong := snap.RSI > 80 && snap.Stoch > 90
		if !in.ActiveHour && !strong {
			return Intent{}, false
		}
		return Intent{
			Side:       market.Short,
			StopLoss:   in.Price + snap.ATR*s.SLMult*in.PipSize,
			TakeProfit: in.Price - snap.ATR*s.TPMult*in.PipSize,
			Strong:     strong,
			Reason:     "RSI and stochastic overbought",
		}, true
	}

	return Intent{}, false
}

func init() {
	Register("scalping", NewScalper())
	Register("hft_scalping", NewHFTScalper())
}
