package identify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PluralKit/PluralKit-sub000/store"
)

const (
	// LeaseTTL exceeds Discord's 5s minimum identify spacing by a safety
	// margin.
	LeaseTTL = 6 * time.Second
	// PollInterval bounds how stale a released bucket can go unnoticed.
	PollInterval = 500 * time.Millisecond
)

// Option configures a Limiter.
type Option func(*Limiter)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(lim *Limiter) { lim.logger = l }
}

// WithPollInterval overrides the retry interval. Tests use this to keep
// contention cases fast.
func WithPollInterval(d time.Duration) Option {
	return func(lim *Limiter) { lim.poll = d }
}

// WithLeaseTTL overrides the lease TTL. Tests only.
func WithLeaseTTL(d time.Duration) Option {
	return func(lim *Limiter) { lim.ttl = d }
}

// Limiter admits shard connections under the fleet-wide identify rate
// constraint. Safe for concurrent use.
type Limiter struct {
	store       store.Store
	concurrency int
	holder      string
	ttl         time.Duration
	poll        time.Duration
	logger      *slog.Logger
}

// New creates a Limiter. concurrency is the platform-supplied
// max-concurrency constant (buckets = shard id mod concurrency); holder is
// an opaque token identifying this process in lease values.
func New(s store.Store, concurrency int, holder string, opts ...Option) *Limiter {
	if concurrency <= 0 {
		concurrency = 1
	}
	lim := &Limiter{
		store:       s,
		concurrency: concurrency,
		holder:      holder,
		ttl:         LeaseTTL,
		poll:        PollInterval,
		logger:      slog.Default(),
	}
	for _, o := range opts {
		o(lim)
	}
	return lim
}

// Bucket returns the identify bucket for a shard id.
func (lim *Limiter) Bucket(shardID int) int { return shardID % lim.concurrency }

// Acquire blocks until this process wins the identify lease for the
// shard's bucket, retrying indefinitely. It fails only when ctx is
// cancelled. Store errors are logged and retried, never surfaced.
func (lim *Limiter) Acquire(ctx context.Context, shardID int) error {
	bucket := lim.Bucket(shardID)
	key := leaseKey(bucket)

	for {
		ok, err := lim.store.SetIfAbsent(ctx, key, lim.holder, lim.ttl)
		if err != nil {
			lim.logger.Warn("identify lease attempt failed",
				slog.Int("shard_id", shardID),
				slog.Int("bucket", bucket),
				slog.String("error", err.Error()),
			)
		} else if ok {
			lim.logger.Debug("identify lease acquired",
				slog.Int("shard_id", shardID),
				slog.Int("bucket", bucket),
			)
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lim.poll):
		}
	}
}

func leaseKey(bucket int) string { return fmt.Sprintf("identify:%d", bucket) }
