// Package cache provides an in-memory TTL cache with capacity-bound FIFO
// eviction and single-flight computation on miss.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/geogate/geogate"
)

// Defaults applied when no option overrides them.
const (
	DefaultTTL           = 15 * time.Minute
	DefaultMaxEntries    = 1024
	DefaultSweepInterval = time.Minute
)

type entry[V any] struct {
	value     V
	createdAt time.Time
	expiresAt time.Time
}

// Cache is a generic TTL cache keyed by normalized URL. Entries expire
// after their TTL and are evicted oldest-first when the capacity bound is
// reached. All methods are safe for concurrent use.
type Cache[V any] struct {
	ttl           time.Duration
	maxEntries    int
	sweepInterval time.Duration
	now           func() time.Time
	normalize     func(string) string

	mu      sync.Mutex
	entries map[string]entry[V]
	hits    int
	misses  int

	group singleflight.Group
	done  chan struct{}
	once  sync.Once
}

// Option configures a Cache.
type Option[V any] func(*Cache[V])

// WithTTL sets the default entry lifetime.
func WithTTL[V any](ttl time.Duration) Option[V] {
	return func(c *Cache[V]) { c.ttl = ttl }
}

// WithMaxEntries bounds the number of live entries.
func WithMaxEntries[V any](n int) Option[V] {
	return func(c *Cache[V]) { c.maxEntries = n }
}

// WithSweepInterval sets the cadence of the background expiry sweep. A
// non-positive interval disables the sweep.
func WithSweepInterval[V any](d time.Duration) Option[V] {
	return func(c *Cache[V]) { c.sweepInterval = d }
}

// WithClock injects the time source, for tests.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *Cache[V]) { c.now = now }
}

// WithKeyNormalizer replaces the key normalization function. The default
// is geogate.NormalizeURLKey.
func WithKeyNormalizer[V any](fn func(string) string) Option[V] {
	return func(c *Cache[V]) { c.normalize = fn }
}

// New creates a Cache and starts its background sweep.
func New[V any](opts ...Option[V]) *Cache[V] {
	c := &Cache[V]{
		ttl:           DefaultTTL,
		maxEntries:    DefaultMaxEntries,
		sweepInterval: DefaultSweepInterval,
		now:           time.Now,
		normalize:     geogate.NormalizeURLKey,
		entries:       make(map[string]entry[V]),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sweepInterval > 0 {
		go c.sweepLoop()
	}
	return c
}

// Get returns the live value for key. An expired entry is evicted on
// access and reported as a miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	return c.get(c.normalize(key), true)
}

// get looks up a pre-normalized key. When count is false the lookup does
// not touch the hit/miss counters; GetOrCompute uses this for its
// post-flight recheck so one logical miss is not counted twice.
func (c *Cache[V]) get(key string, count bool) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if ok && c.now().After(e.expiresAt) {
		delete(c.entries, key)
		ok = false
	}
	if count {
		if ok {
			c.hits++
		} else {
			c.misses++
		}
	}
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the cache's default TTL; an optional
// per-entry TTL overrides it.
func (c *Cache[V]) Set(key string, value V, ttl ...time.Duration) {
	d := c.ttl
	if len(ttl) > 0 && ttl[0] > 0 {
		d = ttl[0]
	}
	key = c.normalize(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[key] = entry[V]{value: value, createdAt: now, expiresAt: now.Add(d)}
}

// evictOldestLocked removes the earliest-inserted entry. Insertion order,
// not access order, decides eviction.
func (c *Cache[V]) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for key, e := range c.entries {
		if first || e.createdAt.Before(oldestAt) {
			oldestKey, oldestAt = key, e.createdAt
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}

// GetOrCompute returns the cached value for key, or runs factory to
// produce and store it. Concurrent callers for the same key share a
// single factory invocation; none of them re-runs the computation.
func (c *Cache[V]) GetOrCompute(ctx context.Context, key string, factory func(ctx context.Context) (V, error)) (V, error) {
	key = c.normalize(key)

	if v, ok := c.get(key, true); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Another flight may have stored the value between our miss and
		// this callback running.
		if v, ok := c.get(key, false); ok {
			return v, nil
		}
		v, err := factory(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// Stats reports the cache's effectiveness counters.
func (c *Cache[V]) Stats() geogate.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := geogate.CacheStats{
		Hits:   c.hits,
		Misses: c.misses,
		Size:   len(c.entries),
	}
	if total := c.hits + c.misses; total > 0 {
		stats.HitRate = float64(c.hits) / float64(total)
	}
	return stats
}

// Clear drops every entry and resets the counters.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry[V])
	c.hits, c.misses = 0, 0
}

// Purge removes expired entries immediately and returns how many were
// dropped.
func (c *Cache[V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Close stops the background sweep. The cache remains usable after Close.
func (c *Cache[V]) Close() {
	c.once.Do(func() { close(c.done) })
}

func (c *Cache[V]) sweepLoop() {
	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Purge()
		case <-c.done:
			return
		}
	}
}
