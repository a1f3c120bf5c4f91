package cache

import (
	"context"
	"time"
)

// Store is a read-through cache: Remember decodes the cached value for key
// into dest, or on a miss invokes compute, caches the result for ttl and
// decodes that instead.
type Store interface {
	Remember(ctx context.Context, key string, ttl time.Duration, dest interface{}, compute func(ctx context.Context) (interface{}, error)) error
}
