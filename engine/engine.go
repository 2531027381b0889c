// Package engine ties the decision loop together: once per tick it resets
// daily counters when the UTC date rolls over, manages open positions, and
// runs every instrument's strategy through the risk pipeline. Evaluation is
// pure and fans out across instruments; gatekeeping and submission stay
// serialized against the shared position/margin view.
package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/fxbot/broker"
	"github.com/rustyeddy/fxbot/config"
	"github.com/rustyeddy/fxbot/id"
	"github.com/rustyeddy/fxbot/journal"
	"github.com/rustyeddy/fxbot/market"
	"github.com/rustyeddy/fxbot/risk"
	"github.com/rustyeddy/fxbot/strategies"
)

type Engine struct {
	instruments []config.Instrument
	limits      risk.Limits
	atrFloor    float64

	tickInterval time.Duration
	idleInterval time.Duration

	venue     broker.Broker
	executor  *broker.Executor
	snapshots market.SnapshotProvider
	gate      *risk.Gatekeeper
	states    *risk.StateStore
	journal   journal.Journal
	log       zerolog.Logger
	now       func() time.Time

	idle bool
}

// New wires an engine from a validated config and its collaborators.
func New(cfg *config.Config, venue broker.Broker, snapshots market.SnapshotProvider,
	j journal.Journal, log zerolog.Logger) (*Engine, error) {

	limits, err := cfg.Limits.Limits()
	if err != nil {
		return nil, err
	}
	tickInterval, err := cfg.TickInterval()
	if err != nil {
		return nil, err
	}
	idleInterval, err := cfg.IdleInterval()
	if err != nil {
		return nil, err
	}

	instruments := cfg.Resolved()
	symbols := make([]string, len(instruments))
	for i, inst := range instruments {
		symbols[i] = inst.Symbol
	}

	now := time.Now
	states := risk.NewStateStore(symbols, now())

	if j == nil {
		j = journal.Nop{}
	}

	return &Engine{
		instruments:  instruments,
		limits:       limits,
		atrFloor:     cfg.Engine.ATRFloor,
		tickInterval: tickInterval,
		idleInterval: idleInterval,
		venue:        venue,
		executor:     broker.NewExecutor(venue, broker.DefaultRetryPolicy(), log),
		snapshots:    snapshots,
		gate:         risk.NewGatekeeper(limits, states, cfg.Correlations()),
		states:       states,
		journal:      j,
		log:          log.With().Str("component", "engine").Logger(),
		now:          now,
	}, nil
}

// SetClock overrides the engine clock. Tests use it to drive date rollovers
// and position aging deterministically.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
	e.states = risk.NewStateStore(e.symbols(), now())
	e.gate = risk.NewGatekeeper(e.limits, e.states, e.gate.Correlations())
}

// SetRetryPolicy replaces the default order retry policy.
func (e *Engine) SetRetryPolicy(p broker.RetryPolicy) {
	e.executor = broker.NewExecutor(e.venue, p, e.log)
}

func (e *Engine) symbols() []string {
	out := make([]string, len(e.instruments))
	for i, inst := range e.instruments {
		out[i] = inst.Symbol
	}
	return out
}

// States exposes the per-instrument counters for tests and diagnostics.
func (e *Engine) States() *risk.StateStore { return e.states }

// Run drives the loop until the context is cancelled. The stop signal is
// only consulted between ticks; an in-flight order submission always
// completes its current attempt first.
func (e *Engine) Run(ctx context.Context) error {
	e.log.Info().Int("instruments", len(e.instruments)).
		Dur("tick_interval", e.tickInterval).Msg("engine started")

	for {
		idle := e.Tick(ctx)

		wait := e.tickInterval
		if idle {
			wait = e.idleInterval
		}

		select {
		case <-ctx.Done():
			e.log.Info().Msg("engine stopped")
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// evaluation is one instrument's phase-1 output: fetched data plus the pure
// strategy verdict. Phase 2 consumes it serially.
type evaluation struct {
	inst      config.Instrument
	tick      market.Tick
	snap      market.Snapshot
	intent    strategies.Intent
	hasIntent bool
	skip      bool // data unavailable this tick
	lowVol    bool // ATR below the floor, no strategy dispatched
}

// Tick runs one scheduler pass and reports whether the loop is in idle-wait.
func (e *Engine) Tick(ctx context.Context) bool {
	now := e.now()

	if e.states.ResetDaily(now) {
		e.log.Info().Msg("daily trade counters reset")
	}

	if acct, err := e.venue.GetAccount(ctx); err != nil {
		e.log.Warn().Err(err).Msg("account info unavailable")
	} else {
		mtxEquity.Set(acct.Equity)
	}

	openAll, err := e.venue.ListPositions(ctx, "")
	if err != nil {
		e.log.Warn().Err(err).Msg("open positions unavailable, skipping tick")
		return e.idle
	}
	mtxOpenPositions.Set(float64(len(openAll)))
	mtxTotalMargin.Set(risk.TotalMargin(openAll, e.limits.Leverage))

	if len(openAll) >= e.limits.MaxOpenPositions {
		if !e.idle {
			e.log.Info().Int("open", len(openAll)).Int("cap", e.limits.MaxOpenPositions).
				Msg("open-position cap reached, idling")
			e.idle = true
			mtxIdle.Set(1)
		}
		return true
	}
	if e.idle {
		e.log.Info().Int("open", len(openAll)).Msg("below open-position cap, resuming scan")
		e.idle = false
		mtxIdle.Set(0)
	}

	results := e.evaluateAll(ctx, now)

	for i := range results {
		ev := &results[i]
		if ev.skip {
			continue
		}

		// Housekeeping for this instrument precedes its new-risk decision.
		e.managePositions(ctx, ev, now)

		if ev.lowVol {
			e.log.Debug().Str("instrument", ev.inst.Symbol).
				Float64("atr", ev.snap.ATR).Msg("volatility below floor")
			continue
		}
		if !ev.hasIntent {
			continue
		}
		e.processIntent(ctx, ev, now)
	}

	return false
}

// evaluateAll fans the data fetch and the pure strategy evaluation out across
// instruments. Nothing here touches shared mutable state.
func (e *Engine) evaluateAll(ctx context.Context, now time.Time) []evaluation {
	results := make([]evaluation, len(e.instruments))
	hour := now.UTC().Hour()

	g, gctx := errgroup.WithContext(ctx)
	for i, inst := range e.instruments {
		inst := inst
		results[i].inst = inst
		ev := &results[i]
		g.Go(func() error {
			tick, err := e.venue.GetTick(gctx, inst.VenueSymbol)
			if err != nil || tick.Ask == 0 {
				e.log.Debug().Str("instrument", inst.Symbol).Err(err).Msg("tick unavailable")
				ev.skip = true
				return nil
			}

			snap, err := e.snapshots.Snapshot(gctx, inst.VenueSymbol, inst.Timeframe)
			if err != nil {
				e.log.Debug().Str("instrument", inst.Symbol).Err(err).Msg("snapshot unavailable")
				ev.skip = true
				return nil
			}

			ev.tick = tick
			ev.snap = snap

			// Volatility floor sits upstream of strategy dispatch.
			if snap.ATR < e.atrFloor {
				ev.lowVol = true
				return nil
			}

			strat, ok := strategies.Get(inst.Strategy)
			if !ok {
				// Validated at config load; unreachable in a running engine.
				ev.skip = true
				return nil
			}
			ev.intent, ev.hasIntent = strat.Evaluate(strategies.Input{
				Price:      tick.Ask,
				Snap:       snap,
				ActiveHour: inst.ActiveAt(hour),
				PipSize:    market.PipSize(inst.Symbol),
				RewardRisk: e.limits.RewardRiskRatio,
			})
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// processIntent runs the risk pipeline on an intent and, if approved,
// submits the order. Instrument state mutates only after a confirmed fill.
func (e *Engine) processIntent(ctx context.Context, ev *evaluation, now time.Time) {
	inst := ev.inst
	price := ev.tick.Ask
	volume := risk.LotSize(e.limits.MaxMarginPerTrade, e.limits.Leverage, price)

	// Re-list positions so approvals see closures made earlier this tick.
	open, err := e.venue.ListPositions(ctx, "")
	if err != nil {
		e.log.Warn().Str("instrument", inst.Symbol).Err(err).
			Msg("open positions unavailable, intent dropped")
		return
	}

	decision := e.gate.Approve(inst.Symbol, volume, price, now, open)

	verdict := "approved"
	if !decision.Allowed {
		verdict = "rejected"
		mtxRejections.WithLabelValues(string(decision.Stage)).Inc()
	}
	mtxDecisions.WithLabelValues(inst.Strategy, verdict).Inc()

	recordID := id.New()
	if err := e.journal.RecordDecision(journal.DecisionRecord{
		ID:          recordID,
		Time:        now,
		Instrument:  inst.Symbol,
		Strategy:    inst.Strategy,
		Signal:      ev.intent.Side.String(),
		Strong:      ev.intent.Strong,
		Allowed:     decision.Allowed,
		Stage:       string(decision.Stage),
		Reason:      decision.Reason,
		Margin:      decision.Margin,
		TotalMargin: decision.TotalMargin,
	}); err != nil {
		e.log.Warn().Err(err).Msg("journal decision failed")
	}

	if !decision.Allowed {
		e.log.Info().Str("instrument", inst.Symbol).Str("stage", string(decision.Stage)).
			Str("reason", decision.Reason).Msg("intent rejected")
		return
	}

	req := broker.OrderRequest{
		ClientID:   recordID,
		Instrument: inst.VenueSymbol,
		Side:       ev.intent.Side,
		Price:      price,
		StopLoss:   ev.intent.StopLoss,
		TakeProfit: ev.intent.TakeProfit,
		Volume:     volume,
	}

	e.log.Info().Str("instrument", inst.Symbol).Str("side", req.Side.String()).
		Float64("price", price).Float64("sl", req.StopLoss).Float64("tp", req.TakeProfit).
		Float64("volume", volume).Bool("strong", ev.intent.Strong).
		Str("reason", ev.intent.Reason).Msg("submitting order")

	res, err := e.executor.Submit(ctx, req)

	result := res.Class.String()
	switch {
	case err == broker.ErrMaxRetries:
		result = "max_retries"
	case err != nil:
		result = "error"
	}
	mtxOrders.WithLabelValues(result).Inc()

	if jerr := e.journal.RecordOrder(journal.OrderRecord{
		ID:         recordID,
		Time:       now,
		Instrument: inst.Symbol,
		Side:       req.Side.String(),
		Volume:     volume,
		Price:      price,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		Result:     result,
		Ticket:     res.Ticket,
		Attempts:   res.Attempts,
	}); jerr != nil {
		e.log.Warn().Err(jerr).Msg("journal order failed")
	}

	if err != nil || res.Class != broker.Filled {
		return
	}

	// Fill confirmed: stamp cooldown and daily counter exactly once.
	e.states.RecordTrade(inst.Symbol, e.now())
}
