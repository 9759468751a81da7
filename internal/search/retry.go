package search

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	"mediahub/discoveryservice/internal/providers/common"
)

// retryPolicy repeats a provider call on transient failures: throttling
// (429), upstream 5xx and dropped connections. Rejected requests and
// malformed payloads fail on the first attempt.
type retryPolicy struct {
	attempts  int
	baseDelay time.Duration
	maxDelay  time.Duration
}

// defaultRetryPolicy makes a single attempt; WithRetryAttempts raises it.
func defaultRetryPolicy() retryPolicy {
	return retryPolicy{
		attempts:  1,
		baseDelay: 300 * time.Millisecond,
		maxDelay:  3 * time.Second,
	}
}

// backoff returns the wait before retry number attempt (1-based): the base
// delay doubled per attempt, capped, then jittered into [d/2, d].
func (p retryPolicy) backoff(attempt int) time.Duration {
	d := p.baseDelay
	for i := 1; i < attempt && d < p.maxDelay; i++ {
		d *= 2
	}
	if d > p.maxDelay {
		d = p.maxDelay
	}
	if d <= 0 {
		return 0
	}
	half := d / 2
	return half + time.Duration(rand.Int64N(int64(half)+1))
}

// run calls fn until it succeeds, fails permanently or runs out of
// attempts. onRetry, when set, sees every failure that will be retried.
func (p retryPolicy) run(ctx context.Context, onRetry func(attempt int, err error, wait time.Duration), fn func() error) error {
	attempts := max(p.attempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil || !retryable(err) || attempt == attempts {
			return err
		}

		wait := p.backoff(attempt)
		if onRetry != nil {
			onRetry(attempt, err, wait)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

// retryable reports whether a provider error may clear on its own.
func retryable(err error) bool {
	var statusErr *common.StatusError
	var netErr net.Error
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, common.ErrUpstreamRejected), errors.Is(err, common.ErrNotConfigured):
		return false
	case errors.As(err, &statusErr):
		return statusErr.Status == http.StatusTooManyRequests || statusErr.Status >= http.StatusInternalServerError
	case errors.Is(err, context.DeadlineExceeded):
		return true
	case errors.As(err, &netErr):
		return true
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return true
	default:
		return false
	}
}
