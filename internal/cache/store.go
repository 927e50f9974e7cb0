package cache

import (
	"context"
	"fmt"
	"time"
)

// Tags group cached catalog entries for invalidation by webhook topic.
const (
	TagCollections = "collections"
	TagProducts    = "products"
)

// DefaultTTL keeps catalog entries for a day unless invalidated earlier.
const DefaultTTL = 24 * time.Hour

// Stamp maps each tag of an entry to the tag version observed before its
// value was loaded.
type Stamp map[string]int64

// Store is a tagged byte cache. Get reports a miss with ok=false and a nil
// error. InvalidateTag bumps the tag's version, and an entry whose stamp is
// older than the current version of any of its tags reads as a miss.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, stamp Stamp, ttl time.Duration) error
	TagVersions(ctx context.Context, tags []string) (Stamp, error)
	InvalidateTag(ctx context.Context, tag string) error
	Ping(ctx context.Context) error
}

// Backend names accepted by CACHE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// ErrUnknownBackend is returned for an unsupported backend name.
type ErrUnknownBackend string

func (e ErrUnknownBackend) Error() string {
	return fmt.Sprintf("cache: unknown backend %q", string(e))
}
