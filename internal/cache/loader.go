package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"
)

// Loader reads through a Store, deduplicating concurrent loads of the same
// key. Store failures are logged and read as misses.
type Loader struct {
	store   Store
	ttl     time.Duration
	group   singleflight.Group
	logger  logr.Logger
	lookups *prometheus.CounterVec
}

// NewLoader wraps store. reg may be nil.
func NewLoader(store Store, ttl time.Duration, logger logr.Logger, reg prometheus.Registerer) *Loader {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Catalog cache lookups by result.",
	}, []string{"result"})
	if reg != nil {
		reg.MustRegister(lookups)
	}
	return &Loader{store: store, ttl: ttl, logger: logger.WithName("cache"), lookups: lookups}
}

// Invalidate drops every entry stamped with tag.
func (l *Loader) Invalidate(ctx context.Context, tag string) error {
	if l == nil {
		return nil
	}
	if err := l.store.InvalidateTag(ctx, tag); err != nil {
		l.logger.Error(err, "invalidate failed", "tag", tag)
		return err
	}
	l.logger.Info("invalidated", "tag", tag)
	return nil
}

// Ping checks the backing store.
func (l *Loader) Ping(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.store.Ping(ctx)
}

// Remember returns the cached value for key, or runs load, stores its JSON
// encoding under tags and returns it. A nil Loader always calls load.
func Remember[T any](ctx context.Context, l *Loader, key string, tags []string, load func(context.Context) (T, error)) (T, error) {
	if l == nil {
		return load(ctx)
	}

	b, ok, err := l.store.Get(ctx, key)
	switch {
	case err != nil:
		l.lookups.WithLabelValues("error").Inc()
		l.logger.Error(err, "get failed", "key", key)
	case ok:
		var out T
		if err := json.Unmarshal(b, &out); err == nil {
			l.lookups.WithLabelValues("hit").Inc()
			return out, nil
		}
		l.logger.Info("discarding undecodable entry", "key", key)
	}
	l.lookups.WithLabelValues("miss").Inc()

	v, err, _ := l.group.Do(key, func() (any, error) {
		// Versions are read before the load so an invalidation that lands
		// while it runs leaves the stored entry stale.
		stamp, verr := l.store.TagVersions(ctx, tags)
		if verr != nil {
			l.logger.Error(verr, "tag versions failed, not caching", "key", key)
		}
		val, err := load(ctx)
		if err != nil || verr != nil {
			return val, err
		}
		encoded, err := json.Marshal(val)
		if err != nil {
			l.logger.Error(err, "encode failed", "key", key)
			return val, nil
		}
		if err := l.store.Set(ctx, key, encoded, stamp, l.ttl); err != nil {
			l.logger.Error(err, "set failed", "key", key)
		}
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
