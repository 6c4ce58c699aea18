// Package ttlcache is a process-scoped map with per-entry expiry.
package ttlcache

import (
	"sync"
	"time"
)

// Clock returns the current time. Tests inject a fake.
type Clock func() time.Time

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is safe for concurrent use. Expired entries are dropped lazily on
// read and eagerly by Purge.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     Clock
	entries map[K]entry[V]
}

// New creates a cache whose entries live for ttl. A nil clock uses time.Now.
func New[K comparable, V any](ttl time.Duration, clock Clock) *Cache[K, V] {
	if clock == nil {
		clock = time.Now
	}
	return &Cache[K, V]{
		ttl:     ttl,
		now:     clock,
		entries: make(map[K]entry[V]),
	}
}

// Get returns the value for key if present and not expired.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the cache TTL.
func (c *Cache[K, V]) Set(key K, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key with an explicit TTL.
func (c *Cache[K, V]) SetWithTTL(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(ttl)}
}

// Update atomically replaces the value under key using fn. fn receives the
// current value and whether it was present; the entry keeps its original
// expiry when it already existed.
func (c *Cache[K, V]) Update(key K, fn func(old V, ok bool) V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	e, ok := c.entries[key]
	if ok && !now.Before(e.expiresAt) {
		ok = false
	}
	if !ok {
		var zero V
		e = entry[V]{value: zero, expiresAt: now.Add(c.ttl)}
	}
	e.value = fn(e.value, ok)
	c.entries[key] = e
	return e.value
}

// Len returns the number of stored entries, expired ones included until
// they are purged.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Purge drops every expired entry and returns how many were removed.
func (c *Cache[K, V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}
