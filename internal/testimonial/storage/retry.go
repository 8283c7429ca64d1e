package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/herobrain/site/internal/metrics"
	"github.com/herobrain/site/internal/testimonial"
)

// RetryingStore gives every attempt against a networked store its own timeout
// and retries failed attempts with an exponential backoff.
type RetryingStore struct {
	next    testimonial.Storage
	timeout time.Duration
	retries uint64
	base    time.Duration
}

func NewRetryingStore(next testimonial.Storage, timeout time.Duration, retries int) *RetryingStore {
	return &RetryingStore{
		next:    next,
		timeout: timeout,
		retries: uint64(max(retries, 0)),
		base:    100 * time.Millisecond,
	}
}

// WithBackoff changes the first wait between attempts, it doubles from there.
func (s *RetryingStore) WithBackoff(base time.Duration) *RetryingStore {
	s.base = base

	return s
}

func (s *RetryingStore) All(ctx context.Context) ([]testimonial.Testimonial, error) {
	var ret []testimonial.Testimonial

	backoff := retry.WithMaxRetries(s.retries, retry.NewExponential(s.base))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		ts, err := s.next.All(attemptCtx)
		if err != nil {
			// A broken source won't fix itself by asking again.
			var loadErr *testimonial.LoadError
			if errors.As(err, &loadErr) {
				return err
			}

			metrics.StoreRetries.Inc()
			slog.Warn("testimonial store attempt failed", "error", err)
			return retry.RetryableError(err)
		}

		ret = ts
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ret, nil
}
