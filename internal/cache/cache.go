// Package cache provides a single-value TTL cache for slowly-changing
// configuration such as unlock schedules and quota tables.
package cache

import (
	"sync"
	"time"
)

// Cache memoizes one loaded value for a fixed TTL. Expiry triggers a
// reload on the next Get; a failed reload keeps the cache empty rather
// than serving stale data.
type Cache[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	load    func() (T, error)
	value   T
	expires time.Time
	valid   bool

	now func() time.Time
}

// New builds a cache around a loader. A non-positive TTL disables caching
// and every Get calls the loader.
func New[T any](ttl time.Duration, load func() (T, error)) *Cache[T] {
	return &Cache[T]{ttl: ttl, load: load, now: time.Now}
}

// Get returns the cached value, reloading it if missing or expired.
func (c *Cache[T]) Get() (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.now().Before(c.expires) {
		return c.value, nil
	}

	v, err := c.load()
	if err != nil {
		var zero T
		c.valid = false
		return zero, err
	}
	c.value = v
	c.expires = c.now().Add(c.ttl)
	c.valid = c.ttl > 0
	return v, nil
}

// Invalidate drops the cached value so the next Get reloads.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}
