package sim

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rustyeddy/fxbot/indicators"
	"github.com/rustyeddy/fxbot/market"
)

// Feed synthesizes a candle history per symbol with a seeded random walk and
// serves indicator snapshots from it. Each Step appends one bar and pushes a
// fresh tick into the venue, so a paper run exercises the same loop a live
// venue would.
type Feed struct {
	mu      sync.Mutex
	rng     *rand.Rand
	venue   *Venue
	candles map[string][]indicators.Candle
	now     func() time.Time
}

func NewFeed(venue *Venue, seed int64, start map[string]float64) *Feed {
	f := &Feed{
		rng:     rand.New(rand.NewSource(seed)),
		venue:   venue,
		candles: make(map[string][]indicators.Candle, len(start)),
		now:     time.Now,
	}
	for sym, price := range start {
		f.candles[sym] = f.seedHistory(sym, price)
	}
	f.mu.Lock()
	for sym := range f.candles {
		f.pushTickLocked(sym)
	}
	f.mu.Unlock()
	return f
}

func (f *Feed) seedHistory(symbol string, price float64) []indicators.Candle {
	bars := make([]indicators.Candle, 0, market.MinLookback)
	t := f.now().Add(-time.Duration(market.MinLookback) * time.Minute)
	for i := 0; i < market.MinLookback; i++ {
		c := f.nextBar(symbol, price, t)
		bars = append(bars, c)
		price = c.Close
		t = t.Add(time.Minute)
	}
	return bars
}

func (f *Feed) nextBar(symbol string, open float64, t time.Time) indicators.Candle {
	pip := market.PipSize(symbol)
	drift := f.rng.NormFloat64() * 4 * pip
	close := open + drift
	wick := math.Abs(f.rng.NormFloat64()) * 2 * pip
	return indicators.Candle{
		Time:  t,
		Open:  open,
		High:  math.Max(open, close) + wick,
		Low:   math.Min(open, close) - wick,
		Close: close,
	}
}

// Step advances every symbol by one bar and refreshes the venue ticks.
func (f *Feed) Step() {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.now()
	for sym, bars := range f.candles {
		last := bars[len(bars)-1]
		bar := f.nextBar(sym, last.Close, t)
		f.candles[sym] = append(bars[1:], bar) // fixed-size window
		f.pushTickLocked(sym)
	}
}

func (f *Feed) pushTickLocked(symbol string) {
	bars := f.candles[symbol]
	last := bars[len(bars)-1]
	halfSpread := market.PipSize(symbol) * 0.75
	f.venue.SetTick(market.Tick{
		Instrument: symbol,
		Bid:        last.Close - halfSpread,
		Ask:        last.Close + halfSpread,
		Time:       last.Time,
	})
}

// Snapshot implements market.SnapshotProvider over the synthetic history.
func (f *Feed) Snapshot(ctx context.Context, symbol, timeframe string) (market.Snapshot, error) {
	f.mu.Lock()
	bars, ok := f.candles[symbol]
	window := make([]indicators.Candle, len(bars))
	copy(window, bars)
	f.mu.Unlock()

	if !ok {
		return market.Snapshot{}, market.ErrUnavailable
	}
	return indicators.Compute(window)
}
