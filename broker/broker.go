package broker

import (
	"context"

	"github.com/rustyeddy/fxbot/market"
)

// Broker is the execution venue boundary. Every call can fail; the engine
// never assumes success and contains failures to the current tick.
type Broker interface {
	GetAccount(ctx context.Context) (Account, error)
	GetTick(ctx context.Context, instrument string) (market.Tick, error)

	// ListPositions returns open positions, optionally filtered by
	// instrument. An empty instrument returns all.
	ListPositions(ctx context.Context, instrument string) ([]market.Position, error)

	SubmitOrder(ctx context.Context, req OrderRequest) (OrderResult, error)
	ModifyStop(ctx context.Context, ticket string, stop float64) error
	ClosePosition(ctx context.Context, ticket string) error
}

type Account struct {
	ID         string
	Currency   string
	Balance    float64
	Equity     float64
	MarginUsed float64
}

// OrderRequest is a market order with protective legs attached.
type OrderRequest struct {
	ClientID   string // ULID assigned by the caller, for journaling
	Instrument string
	Side       market.Side
	Price      float64
	StopLoss   float64
	TakeProfit float64
	Volume     float64
}
