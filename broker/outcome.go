package broker

// Class buckets venue order outcomes into the retry contract: fill, retry
// with a class-specific backoff, or give up immediately.
type Class int

const (
	Filled Class = iota
	// RetryDisabled: the venue rejected because trading is disabled
	// server-side. Worth a longer wait before resubmitting.
	RetryDisabled
	// RetryInvalid: the venue judged the request malformed. Usually a
	// transient pricing/levels race; retried after a short wait.
	RetryInvalid
	// Terminal: not retryable (insufficient funds and the like).
	Terminal
)

func (c Class) String() string {
	switch c {
	case Filled:
		return "filled"
	case RetryDisabled:
		return "retry_disabled"
	case RetryInvalid:
		return "retry_invalid"
	default:
		return "terminal"
	}
}

// Retryable reports whether the executor may resubmit after this outcome.
func (c Class) Retryable() bool {
	return c == RetryDisabled || c == RetryInvalid
}

// OrderResult is a classified venue response. Ticket and Price are set only
// on a fill. Code carries the raw venue retcode for logging.
type OrderResult struct {
	Class    Class
	Ticket   string
	Price    float64
	Code     int
	Detail   string
	Attempts int // filled in by the executor
}
