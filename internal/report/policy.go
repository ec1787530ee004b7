package report

import (
	"context"
	"time"
)

// RetryPolicy drives attempts against a flaky collaborator: one timeout per
// attempt, optional backoff between attempts. It exists so the
// attempt/retry/fallback shape is declared in one place instead of being
// duplicated inline around every call.
type RetryPolicy struct {
	// Timeouts holds one entry per attempt; its length is the attempt budget.
	Timeouts []time.Duration
	Backoff  time.Duration
}

// DefaultRetryPolicy is short first, patient second.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Timeouts: []time.Duration{20 * time.Second, 60 * time.Second}}
}

// Do runs fn under the policy. Attempts are strictly sequential; a new one
// starts only after the previous definitively failed. If the surrounding
// context is cancelled the remaining attempts are abandoned immediately.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) (string, error)) (string, error) {
	var lastErr error

	wait := p.Backoff
	for i, timeout := range p.Timeouts {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if i > 0 && wait > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			wait *= 2
		}

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		out, err := fn(attemptCtx)
		cancel()
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	return "", lastErr
}
