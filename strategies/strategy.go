package strategies

import (
	"sort"

	"github.com/rustyeddy/fxbot/market"
)

// Input carries everything a strategy may consult for one evaluation pass.
// Price is the current tradable (ask) price; Snap is the indicator state for
// the same instrument. ActiveHour reports whether the instrument is inside
// its configured session; outside it, only escalated conditions fire.
type Input struct {
	Price      float64
	Snap       market.Snapshot
	ActiveHour bool
	PipSize    float64
	RewardRisk float64
}

// Intent is a proposed trade. Strong marks an entry taken on the escalated
// (out-of-session) condition.
type Intent struct {
	Side       market.Side
	StopLoss   float64
	TakeProfit float64
	Strong     bool
	Reason     string
}

// Strategy evaluates one instrument's snapshot and yields at most one intent.
// Implementations must be pure: no I/O, no retained state between calls.
type Strategy interface {
	Name() string
	Evaluate(in Input) (Intent, bool)
}

var registry = make(map[string]Strategy)

func Register(tag string, s Strategy) {
	registry[tag] = s
}

func Get(tag string) (Strategy, bool) {
	s, ok := registry[tag]
	return s, ok
}

// Tags returns the registered strategy tags, sorted.
func Tags() []string {
	tags := make([]string, 0, len(registry))
	for tag := range registry {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// atrLegs sizes stop and target off ATR expressed in pips, with the target
// scaled by the reward-to-risk ratio.
func atrLegs(in Input, side market.Side) (sl, tp float64) {
	dist := in.Snap.ATR * 100 * in.PipSize
	if side == market.Short {
		return in.Price + dist, in.Price - dist*in.RewardRisk
	}
	return in.Price - dist, in.Price + dist*in.RewardRisk
}
