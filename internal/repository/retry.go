package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auction-site/internal/auctionerrors"
	"auction-site/internal/metrics"

	"github.com/sethvargo/go-retry"
)

const (
	// DefaultMaxRetries bounds how often a conflicting transaction is replayed
	DefaultMaxRetries = 5

	defaultRetryBase = 2 * time.Millisecond
)

// RetryingStore replays transactions that lost a concurrency conflict.
// Every other error, including a deleted target, is returned untouched.
type RetryingStore struct {
	Store
	maxRetries uint64
	base       time.Duration
}

// WithRetry wraps store so Update retries ErrConcurrencyConflict up to
// maxRetries times before reporting ErrStoreUnavailable
func WithRetry(store Store, maxRetries uint64) *RetryingStore {
	return &RetryingStore{Store: store, maxRetries: maxRetries, base: defaultRetryBase}
}

// Update runs fn, replaying it against fresh state after a conflict
func (s *RetryingStore) Update(ctx context.Context, siteID int64, fn func(tx Tx) error) error {
	attempt := 0
	backoff := retry.WithMaxRetries(s.maxRetries, retry.NewExponential(s.base))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := s.Store.Update(ctx, siteID, fn)
		if errors.Is(err, auctionerrors.ErrConcurrencyConflict) {
			metrics.StoreRetries.Inc()
			return retry.RetryableError(err)
		}
		return err
	})

	if errors.Is(err, auctionerrors.ErrConcurrencyConflict) {
		return fmt.Errorf("site %d: gave up after %d attempts: %w: %w",
			siteID, attempt, auctionerrors.ErrStoreUnavailable, err)
	}
	return err
}
