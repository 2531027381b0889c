package risk

import (
	"sync"
	"time"
)

// InstrumentState tracks the per-instrument counters the gatekeeper consults.
type InstrumentState struct {
	LastTrade   time.Time
	TradesToday int
}

// StateStore owns the per-instrument trading state and the daily reset date.
// All access is serialized; the engine shares one store across instruments.
type StateStore struct {
	mu        sync.Mutex
	states    map[string]*InstrumentState
	resetDate time.Time // midnight UTC of the last reset
}

func NewStateStore(symbols []string, now time.Time) *StateStore {
	s := &StateStore{
		states:    make(map[string]*InstrumentState, len(symbols)),
		resetDate: midnightUTC(now),
	}
	for _, sym := range symbols {
		s.states[sym] = &InstrumentState{}
	}
	return s
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ResetDaily zeroes every instrument's daily counter if the UTC date has
// advanced since the last reset. Idempotent within a date; returns whether a
// reset happened.
func (s *StateStore) ResetDaily(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	date := midnightUTC(now)
	if !date.After(s.resetDate) {
		return false
	}
	for _, st := range s.states {
		st.TradesToday = 0
	}
	s.resetDate = date
	return true
}

// Get returns a copy of the instrument's state. Unknown symbols read as zero.
func (s *StateStore) Get(symbol string) InstrumentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[symbol]; ok {
		return *st
	}
	return InstrumentState{}
}

// RecordTrade marks a confirmed fill: stamps the cooldown clock and bumps the
// daily counter. Called only after the venue reports the order filled.
func (s *StateStore) RecordTrade(symbol string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[symbol]
	if !ok {
		st = &InstrumentState{}
		s.states[symbol] = st
	}
	st.LastTrade = now
	st.TradesToday++
}
