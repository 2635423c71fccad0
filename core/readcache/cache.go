package readcache

import (
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value any
	built time.Time
}

// Cache holds the memoized reads of one dataset type.
type Cache struct {
	name string
	ttl  time.Duration

	mu         sync.RWMutex
	entries    map[string]entry
	generation uint64
	sf         singleflight.Group
}

func newCache(name string, ttl time.Duration) *Cache {
	return &Cache{name: name, ttl: ttl, entries: make(map[string]entry)}
}

// Name returns the cache name.
func (c *Cache) Name() string { return c.name }

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) expired(e entry) bool {
	return c.ttl > 0 && time.Since(e.built) > c.ttl
}

func (c *Cache) lookup(key string) (any, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || c.expired(e) {
		return nil, c.generation, false
	}
	return e.value, c.generation, true
}

// Invalidate evicts every entry.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.generation++
	c.mu.Unlock()
}

// Get returns the cached value for key or loads it. Concurrent misses for
// the same key share a single load.
func Get[T any](c *Cache, key string, load func() (T, error)) (T, error) {
	// Fast path
	if v, _, ok := c.lookup(key); ok {
		return v.(T), nil
	}

	// Slow path: one load per key and generation
	_, gen, _ := c.lookup(key)
	result, err, _ := c.sf.Do(strconv.FormatUint(gen, 10)+"|"+key, func() (any, error) {
		if v, _, ok := c.lookup(key); ok {
			return v, nil
		}

		v, err := load()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.generation == gen {
			c.entries[key] = entry{value: v, built: time.Now()}
		}
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

// WithInvalidation evicts the cache, runs mutate and evicts it again,
// whether or not mutate failed. Entries cached before the mutation are
// never served while it runs.
func WithInvalidation(c *Cache, mutate func() error) error {
	c.Invalidate()
	defer c.Invalidate()
	return mutate()
}

// Registry hands out caches by name.
type Registry struct {
	ttl    time.Duration
	mu     sync.Mutex
	caches map[string]*Cache
}

// NewRegistry creates a registry whose caches expire entries after ttl.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{ttl: ttl, caches: make(map[string]*Cache)}
}

// Named returns the cache called name, creating it on first use.
func (r *Registry) Named(name string) *Cache {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.caches[name]
	if !ok {
		c = newCache(name, r.ttl)
		r.caches[name] = c
	}
	return c
}

// InvalidateAll evicts every cache.
func (r *Registry) InvalidateAll() {
	r.mu.Lock()
	caches := make([]*Cache, 0, len(r.caches))
	for _, c := range r.caches {
		caches = append(caches, c)
	}
	r.mu.Unlock()

	for _, c := range caches {
		c.Invalidate()
	}
}
