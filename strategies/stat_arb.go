package strategies

import "github.com/rustyeddy/fxbot/market"

// StatArb buys when the close sits more than Entry standard deviations below
// its 50-bar mean, expecting reversion toward the mean.
type StatArb struct {
	Entry     float64 // z-score entry threshold, e.g. -2
	Escalated float64 // out-of-session threshold, e.g. -3
}

func NewStatArb() *StatArb {
	return &StatArb{Entry: -2, Escalated: -3}
}

func (*StatArb) Name() string { return "stat_arb" }

func (s *StatArb) Evaluate(in Input) (Intent, bool) {
	z := in.Snap.ZScore()
	if z >= s.Entry {
		return Intent{}, false
	}
	strong := z < s.Escalated
	if !in.ActiveHour && !strong {
		return Intent{}, false
	}
	sl, tp := atrLegs(in, market.Long)
	return Intent{
		Side:       market.Long,
		StopLoss:   sl,
		TakeProfit: tp,
		Strong:     strong,
		Reason:     "z-score below entry threshold",
	}, true
}

func init() {
	Register("stat_arb", NewStatArb())
}
