package risk

import (
	"fmt"
	"time"
)

// Limits are the process-wide risk constants. Loaded once at startup and
// never mutated afterwards.
type Limits struct {
	Cooldown          time.Duration // minimum gap between trades per instrument
	MaxTradesPerDay   int           // per instrument, UTC calendar day
	MaxOpenPositions  int           // across all instruments
	RewardRiskRatio   float64       // target distance = stop distance * ratio
	Leverage          float64       // e.g. 200 for 1:200
	MaxDuration       time.Duration // force-close positions older than this
	MaxMarginPerTrade float64       // account currency, bounds a single trade
}

func (l Limits) Validate() error {
	if l.Cooldown <= 0 {
		return fmt.Errorf("cooldown must be positive")
	}
	if l.MaxTradesPerDay <= 0 {
		return fmt.Errorf("max_trades_per_day must be positive")
	}
	if l.MaxOpenPositions <= 0 {
		return fmt.Errorf("max_open_positions must be positive")
	}
	if l.RewardRiskRatio <= 0 {
		return fmt.Errorf("reward_risk_ratio must be positive")
	}
	if l.Leverage <= 0 {
		return fmt.Errorf("leverage must be positive")
	}
	if l.MaxDuration <= 0 {
		return fmt.Errorf("max_duration must be positive")
	}
	if l.MaxMarginPerTrade <= 0 {
		return fmt.Errorf("max_margin_per_trade must be positive")
	}
	return nil
}

// DefaultLimits mirrors the production constants this engine has run with.
func DefaultLimits() Limits {
	return Limits{
		Cooldown:          5 * time.Minute,
		MaxTradesPerDay:   50,
		MaxOpenPositions:  10,
		RewardRiskRatio:   1.5,
		Leverage:          200,
		MaxDuration:       48 * time.Hour,
		MaxMarginPerTrade: 25_000,
	}
}
