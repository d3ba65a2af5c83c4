package repositories

import (
	"sync"
	"time"
)

// CacheEntry is a cached value and the window it is good for. A zero TTL
// never goes stale.
type CacheEntry[V any] struct {
	Value    V
	StoredAt time.Time
	TTL      time.Duration
}

func (e CacheEntry[V]) Fresh(now time.Time) bool {
	return e.TTL <= 0 || now.Before(e.StoredAt.Add(e.TTL))
}

// Cache is the shape read-heavy aggregates can be memoized behind. Stale
// entries are skipped by callers and replaced on the next Set; nothing is
// evicted.
type Cache[V any] interface {
	Get(key string) (CacheEntry[V], bool)
	Set(key string, entry CacheEntry[V])
	Delete(key string)
}

type mapCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]CacheEntry[V]
}

func NewMapCache[V any]() Cache[V] {
	return &mapCache[V]{entries: make(map[string]CacheEntry[V])}
}

func (c *mapCache[V]) Get(key string) (CacheEntry[V], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

func (c *mapCache[V]) Set(key string, entry CacheEntry[V]) {
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
}

func (c *mapCache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
