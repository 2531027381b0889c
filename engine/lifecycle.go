package engine

import (
	"context"
	"time"

	"github.com/rustyeddy/fxbot/market"
)

// managePositions walks the instrument's open positions: positions past the
// duration limit are force-closed, the rest get their trailing stop
// tightened. A position being closed this pass never receives a trail.
func (e *Engine) managePositions(ctx context.Context, ev *evaluation, now time.Time) {
	positions, err := e.venue.ListPositions(ctx, ev.inst.VenueSymbol)
	if err != nil {
		e.log.Warn().Str("instrument", ev.inst.Symbol).Err(err).
			Msg("positions unavailable, lifecycle skipped")
		return
	}

	for _, pos := range positions {
		if pos.Age(now) > e.limits.MaxDuration {
			if err := e.venue.ClosePosition(ctx, pos.Ticket); err != nil {
				e.log.Warn().Str("ticket", pos.Ticket).Err(err).Msg("forced close failed")
				continue
			}
			mtxForcedCloses.Inc()
			e.log.Info().Str("instrument", ev.inst.Symbol).Str("ticket", pos.Ticket).
				Dur("age", pos.Age(now)).Msg("position closed, max duration exceeded")
			continue
		}
		e.trail(ctx, pos, ev.snap.ATR)
	}
}

// trail proposes price∓ATR as the new stop and applies it only when strictly
// tighter than the current one. The stop never loosens.
func (e *Engine) trail(ctx context.Context, pos market.Position, atr float64) {
	if atr <= 0 {
		return
	}

	var newStop float64
	if pos.Side == market.Long {
		newStop = pos.CurrentPrice - atr
		if newStop <= pos.StopLoss {
			return
		}
	} else {
		newStop = pos.CurrentPrice + atr
		if pos.StopLoss != 0 && newStop >= pos.StopLoss {
			return
		}
	}

	if err := e.venue.ModifyStop(ctx, pos.Ticket, newStop); err != nil {
		e.log.Warn().Str("ticket", pos.Ticket).Err(err).Msg("trailing stop update failed")
		return
	}
	mtxTrailing.Inc()
	e.log.Debug().Str("instrument", pos.Instrument).Str("ticket", pos.Ticket).
		Float64("stop", newStop).Msg("trailing stop tightened")
}
