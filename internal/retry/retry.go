// Package retry runs an operation with bounded exponential backoff.
// Operations classify their own failures: returning Permanent stops the
// loop immediately, any other error is retried until the tries run out.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy bounds a retry loop.
type Policy struct {
	MaxTries        uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultPolicy is used when a zero Policy is passed.
var DefaultPolicy = Policy{
	MaxTries:        3,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     10 * time.Second,
}

// Permanent marks err as not worth retrying. Do returns err itself.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs op until it succeeds, returns a permanent error, the context is
// done, or MaxTries attempts have been made. The last error is returned.
func Do[T any](ctx context.Context, p Policy, logger *slog.Logger, name string, op func() (T, error)) (T, error) {
	if p.MaxTries == 0 {
		p.MaxTries = DefaultPolicy.MaxTries
	}
	if p.InitialInterval <= 0 {
		p.InitialInterval = DefaultPolicy.InitialInterval
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = DefaultPolicy.MaxInterval
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval

	attempt := 0
	wrapped := func() (T, error) {
		attempt++
		return op()
	}

	notify := func(err error, wait time.Duration) {
		logger.Warn("retrying after failure",
			slog.String("operation", name),
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()),
		)
	}

	return backoff.Retry(ctx, wrapped,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(p.MaxTries),
		backoff.WithNotify(notify),
	)
}
