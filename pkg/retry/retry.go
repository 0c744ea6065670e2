package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type Operation func() error

// Permanent marks err as final so Poll returns it without another attempt.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Poll runs fn, then again every interval, until fn returns nil, fn returns a
// Permanent error, or ctx is done. When ctx ends first the context error is
// returned. onRetry, if set, sees every transient error.
func Poll(ctx context.Context, interval time.Duration, fn Operation, onRetry func(error, time.Duration)) error {
	if interval <= 0 {
		interval = time.Second
	}
	b := backoff.WithContext(backoff.NewConstantBackOff(interval), ctx)
	return backoff.RetryNotify(backoff.Operation(fn), b, func(err error, next time.Duration) {
		if onRetry != nil {
			onRetry(err, next)
		}
	})
}
