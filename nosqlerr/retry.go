package nosqlerr

import (
	"math/rand"
	"time"
)

// IsRetryable classifies an error kind by whether a caller may retry the
// same operation unmodified. Argument, cancellation, not-found/exists,
// size-limit and protocol errors are never retried; throttling and
// retryable-transport are.
//
// KindAuthInvalid is handled separately by the dispatcher: it forces one
// credential refresh and retry outside this classifier, then gives up if
// the response is still AuthInvalid, rather than retrying the identical
// request up to the full attempt budget.
//
// KindPreparedStatementInvalid is never retried here either: the fix is
// to re-prepare the statement and rebuild the request, which only the
// caller holding the original statement text can do. Retrying the exact
// same request against the same stale plan would just fail identically
// every time.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindThrottling, KindRetryableTransport:
		return true
	default:
		return false
	}
}

// Policy controls the retry handler's attempt cap and back-off schedule.
// The zero value is not usable; use DefaultPolicy or set every field.
type Policy struct {
	MaxAttempts int
	BaseDelay time.Duration
	MaxDelay time.Duration
	ReadFactor float64 // multiplies MaxAttempts for read-class opcodes
	WriteFactor float64 // multiplies MaxAttempts for write-class opcodes
	jitterSource func() float64
}

// DefaultPolicy mirrors typical NoSQL-client defaults: a handful of
// attempts with exponential back-off and jitter, reads retried more
// aggressively than writes since writes may have partially applied.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 10,
		BaseDelay: 10 * time.Millisecond,
		MaxDelay: 2 * time.Second,
		ReadFactor: 1.0,
		WriteFactor: 0.5,
	}
}

// MaxAttemptsFor returns the effective attempt cap for a request class.
func (p Policy) MaxAttemptsFor(isRead bool) int {
	factor := p.WriteFactor
	if isRead {
		factor = p.ReadFactor
	}
	n := int(float64(p.MaxAttempts) * factor)
	if n < 1 {
		n = 1
	}
	return n
}

// Backoff computes the delay before retry attempt number `attempt`
// (1-based), exponential with full jitter, capped at MaxDelay.
func (p Policy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := p.BaseDelay << uint(attempt-1)
	if d <= 0 || d > p.MaxDelay {
		d = p.MaxDelay
	}
	jitter := p.jitterSource
	if jitter == nil {
		jitter = rand.Float64
	}
	return time.Duration(float64(d) * jitter())
}
