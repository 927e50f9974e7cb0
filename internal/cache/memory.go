package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

type memoryEntry struct {
	value []byte
	stamp Stamp
}

// Memory is an in-process Store on ristretto. Tag invalidation bumps a
// per-tag generation; entries stamped with an older generation read as misses.
type Memory struct {
	cache *ristretto.Cache[string, memoryEntry]

	mu   sync.RWMutex
	gens map[string]int64
}

// NewMemory builds a Memory store bounded to maxBytes of cached values.
func NewMemory(maxBytes int64) (*Memory, error) {
	if maxBytes <= 0 {
		maxBytes = 64 << 20
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, memoryEntry]{
		NumCounters: 1e5,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Memory{cache: c, gens: make(map[string]int64)}, nil
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := m.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for tag, gen := range e.stamp {
		if m.gens[tag] != gen {
			return nil, false, nil
		}
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, stamp Stamp, ttl time.Duration) error {
	m.cache.SetWithTTL(key, memoryEntry{value: value, stamp: stamp}, int64(len(value))+1, ttl)
	m.cache.Wait()
	return nil
}

func (m *Memory) TagVersions(_ context.Context, tags []string) (Stamp, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stamp := make(Stamp, len(tags))
	for _, t := range tags {
		stamp[t] = m.gens[t]
	}
	return stamp, nil
}

func (m *Memory) InvalidateTag(_ context.Context, tag string) error {
	m.mu.Lock()
	m.gens[tag]++
	m.mu.Unlock()
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

// Close stops ristretto's background goroutines.
func (m *Memory) Close() {
	m.cache.Close()
}
