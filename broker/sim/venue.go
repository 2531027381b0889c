// Package sim is an in-memory execution venue. It backs the simulate
// command and the engine/executor tests: orders fill instantly at the stored
// tick, positions live in a map keyed by ULID ticket, and outcomes can be
// scripted to exercise the retry contract.
package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rustyeddy/fxbot/broker"
	"github.com/rustyeddy/fxbot/id"
	"github.com/rustyeddy/fxbot/market"
)

type Venue struct {
	mu        sync.Mutex
	acct      broker.Account
	leverage  float64
	ticks     map[string]market.Tick
	positions map[string]*market.Position
	now       func() time.Time

	// scripted outcomes consumed FIFO by SubmitOrder before normal fills
	scripted []broker.OrderResult
}

func New(acct broker.Account, leverage float64) *Venue {
	return &Venue{
		acct:      acct,
		leverage:  leverage,
		ticks:     make(map[string]market.Tick),
		positions: make(map[string]*market.Position),
		now:       time.Now,
	}
}

// SetClock overrides the venue clock, for tests that age positions.
func (v *Venue) SetClock(now func() time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.now = now
}

// SetTick stores the latest quote for an instrument and revalues any open
// positions in it.
func (v *Venue) SetTick(t market.Tick) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ticks[t.Instrument] = t
	for _, p := range v.positions {
		if p.Instrument != t.Instrument {
			continue
		}
		if p.Side == market.Long {
			p.CurrentPrice = t.Bid
		} else {
			p.CurrentPrice = t.Ask
		}
	}
}

// Script queues a canned response for the next SubmitOrder call. A scripted
// Filled result still opens a position at the current tick.
func (v *Venue) Script(r broker.OrderResult) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scripted = append(v.scripted, r)
}

func (v *Venue) GetAccount(ctx context.Context) (broker.Account, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	acct := v.acct
	acct.MarginUsed = v.marginUsedLocked()
	return acct, nil
}

func (v *Venue) GetTick(ctx context.Context, instrument string) (market.Tick, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	t, ok := v.ticks[instrument]
	if !ok || t.Ask == 0 {
		return market.Tick{}, fmt.Errorf("tick for %s: %w", instrument, market.ErrUnavailable)
	}
	return t, nil
}

func (v *Venue) ListPositions(ctx context.Context, instrument string) ([]market.Position, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []market.Position
	for _, p := range v.positions {
		if instrument == "" || p.Instrument == instrument {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (v *Venue) SubmitOrder(ctx context.Context, req broker.OrderRequest) (broker.OrderResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.scripted) > 0 {
		r := v.scripted[0]
		v.scripted = v.scripted[1:]
		if r.Class != broker.Filled {
			return r, nil
		}
		return v.fillLocked(req)
	}
	return v.fillLocked(req)
}

func (v *Venue) fillLocked(req broker.OrderRequest) (broker.OrderResult, error) {
	t, ok := v.ticks[req.Instrument]
	if !ok {
		return broker.OrderResult{}, fmt.Errorf("fill %s: %w", req.Instrument, market.ErrUnavailable)
	}

	price := t.Ask
	if req.Side == market.Short {
		price = t.Bid
	}

	ticket := id.New()
	v.positions[ticket] = &market.Position{
		Ticket:       ticket,
		Instrument:   req.Instrument,
		Side:         req.Side,
		Volume:       req.Volume,
		OpenPrice:    price,
		CurrentPrice: price,
		StopLoss:     req.StopLoss,
		TakeProfit:   req.TakeProfit,
		OpenTime:     v.now(),
	}

	return broker.OrderResult{Class: broker.Filled, Ticket: ticket, Price: price}, nil
}

func (v *Venue) ModifyStop(ctx context.Context, ticket string, stop float64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	p, ok := v.positions[ticket]
	if !ok {
		return fmt.Errorf("modify stop: position %q not found", ticket)
	}
	p.StopLoss = stop
	return nil
}

func (v *Venue) ClosePosition(ctx context.Context, ticket string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	p, ok := v.positions[ticket]
	if !ok {
		return fmt.Errorf("close position: %q not found", ticket)
	}

	t, ok := v.ticks[p.Instrument]
	if !ok {
		return fmt.Errorf("close position %q: %w", ticket, market.ErrUnavailable)
	}

	// Longs close on bid, shorts on ask.
	var pl float64
	if p.Side == market.Long {
		pl = (t.Bid - p.OpenPrice) * p.Volume * market.ContractSize
	} else {
		pl = (p.OpenPrice - t.Ask) * p.Volume * market.ContractSize
	}
	v.acct.Balance += pl
	v.acct.Equity = v.acct.Balance
	delete(v.positions, ticket)
	return nil
}

func (v *Venue) marginUsedLocked() float64 {
	var total float64
	for _, p := range v.positions {
		total += p.Volume * market.ContractSize * p.OpenPrice / v.leverage
	}
	return total
}
