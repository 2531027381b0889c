package broker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ErrMaxRetries reports that every allowed attempt was spent without a fill.
// The caller must not mutate cooldown or counter state when it sees this.
var ErrMaxRetries = errors.New("order submission: max retries exceeded")

var (
	errTradingDisabled = errors.New("venue trading disabled")
	errInvalidRequest  = errors.New("invalid order request")
	errTerminalReject  = errors.New("order rejected")
)

// RetryPolicy bounds order resubmission. Backoffs are fixed per outcome
// class rather than exponential; the venue conditions they cover clear on
// their own schedule, not under load.
type RetryPolicy struct {
	MaxAttempts     int
	DisabledBackoff time.Duration
	InvalidBackoff  time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		DisabledBackoff: 5 * time.Second,
		InvalidBackoff:  2 * time.Second,
	}
}

// classBackOff yields whatever delay the last classified outcome demands.
type classBackOff struct {
	delay time.Duration
}

func (c *classBackOff) NextBackOff() time.Duration { return c.delay }
func (c *classBackOff) Reset()                     {}

// Executor drives order submission through the retry contract. It throttles
// venue requests and classifies each response; only a Filled result reaches
// the caller as success.
type Executor struct {
	broker  Broker
	policy  RetryPolicy
	limiter *rate.Limiter
	log     zerolog.Logger
}

func NewExecutor(b Broker, policy RetryPolicy, log zerolog.Logger) *Executor {
	if policy.MaxAttempts <= 0 {
		policy = DefaultRetryPolicy()
	}
	return &Executor{
		broker:  b,
		policy:  policy,
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
		log:     log.With().Str("component", "executor").Logger(),
	}
}

// Submit sends the order, resubmitting on retryable outcomes up to the
// attempt cap. The current attempt always runs to completion before the
// context is consulted, so a cancelled shutdown never orphans an order.
func (e *Executor) Submit(ctx context.Context, req OrderRequest) (OrderResult, error) {
	var (
		res      OrderResult
		attempts int
		delay    classBackOff
	)

	op := func() error {
		if err := e.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		r, err := e.broker.SubmitOrder(ctx, req)
		attempts++
		if err != nil {
			return backoff.Permanent(fmt.Errorf("submit order: %w", err))
		}
		res = r

		switch r.Class {
		case Filled:
			return nil
		case RetryDisabled:
			e.log.Warn().Str("instrument", req.Instrument).Int("attempt", attempts).
				Int("code", r.Code).Msg("trading disabled at venue, backing off")
			delay.delay = e.policy.DisabledBackoff
			return errTradingDisabled
		case RetryInvalid:
			e.log.Warn().Str("instrument", req.Instrument).Int("attempt", attempts).
				Int("code", r.Code).Msg("invalid request, backing off")
			delay.delay = e.policy.InvalidBackoff
			return errInvalidRequest
		default:
			return backoff.Permanent(errTerminalReject)
		}
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(&delay, uint64(e.policy.MaxAttempts-1)), ctx)
	err := backoff.Retry(op, bo)

	res.Attempts = attempts

	switch {
	case err == nil:
		e.log.Info().Str("instrument", req.Instrument).Str("ticket", res.Ticket).
			Float64("price", res.Price).Int("attempts", attempts).Msg("order filled")
		return res, nil
	case errors.Is(err, errTerminalReject):
		e.log.Error().Str("instrument", req.Instrument).Int("code", res.Code).
			Str("detail", res.Detail).Msg("order rejected, not retryable")
		return res, nil
	case errors.Is(err, errTradingDisabled), errors.Is(err, errInvalidRequest):
		e.log.Error().Str("instrument", req.Instrument).Int("attempts", attempts).
			Msg("order not placed, retries exhausted")
		return res, ErrMaxRetries
	default:
		return res, err
	}
}
