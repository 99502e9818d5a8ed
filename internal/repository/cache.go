package repository

import (
	"context"
	"time"
)

// Cache is a small key-value cache used to memoize simulation results and to
// claim webhook event ids for at-most-once processing. Implementations must
// treat misses as (value, false), never as errors.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// SetNX stores the value only if the key is absent and reports whether
	// the claim succeeded.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
}
