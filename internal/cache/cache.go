package cache

import (
	"context"
	"time"
)

// KeyValueCache is a TTL cache for derived lookups such as resolved sheet
// headers. Cache failures are never fatal: a miss just forces a re-read from
// the store, so implementations swallow transport errors.
type KeyValueCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Put(ctx context.Context, key string, value string, ttl time.Duration)
	Remove(ctx context.Context, key string)
}
