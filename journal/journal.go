package journal

import "time"

// DecisionRecord captures one gatekeeping outcome, approved or not. Rejected
// decisions carry the pipeline stage and reason.
type DecisionRecord struct {
	ID          string
	Time        time.Time
	Instrument  string
	Strategy    string
	Signal      string
	Strong      bool
	Allowed     bool
	Stage       string
	Reason      string
	Margin      float64
	TotalMargin float64
}

// OrderRecord captures one submission through the retry executor.
type OrderRecord struct {
	ID         string
	Time       time.Time
	Instrument string
	Side       string
	Volume     float64
	Price      float64
	StopLoss   float64
	TakeProfit float64
	Result     string
	Ticket     string
	Attempts   int
}

type Journal interface {
	RecordDecision(DecisionRecord) error
	RecordOrder(OrderRecord) error
	Close() error
}

// Nop discards every record. Used when journaling is disabled.
type Nop struct{}

func (Nop) RecordDecision(DecisionRecord) error { return nil }
func (Nop) RecordOrder(OrderRecord) error       { return nil }
func (Nop) Close() error                        { return nil }
