package address

import (
	"math/rand/v2"
	"sync"
)

const (
	defaultDeadCacheEntries = 10000

	CacheHit        = "hit"
	CacheMiss       = "miss"
	CacheStore      = "store"
	CacheEvict      = "evict"
	CacheInvalidate = "invalidate"
)

// DeadCache memoizes aggregates of inactive addresses. When full, a random fifth of the
// entries is dropped.
type DeadCache struct {
	mu      sync.Mutex
	entries map[string]*Address
	max     int
	metrics Metrics
}

// NewDeadCache builds a cache holding at most max entries.
func NewDeadCache(max int, metrics Metrics) *DeadCache {
	if max <= 0 {
		max = defaultDeadCacheEntries
	}
	return &DeadCache{
		entries: make(map[string]*Address),
		max:     max,
		metrics: metrics,
	}
}

func (c *DeadCache) observe(event string, n int) {
	if c.metrics != nil && n > 0 {
		c.metrics.ObserveCache(event, n)
	}
}

// Get returns the memoized aggregate of address.
func (c *DeadCache) Get(address string) (*Address, bool) {
	c.mu.Lock()
	a, ok := c.entries[address]
	c.mu.Unlock()
	if ok {
		c.observe(CacheHit, 1)
	} else {
		c.observe(CacheMiss, 1)
	}
	return a, ok
}

// Put stores a, evicting random entries first when the cache is full.
func (c *DeadCache) Put(address string, a *Address) {
	c.mu.Lock()
	evicted := 0
	if _, exists := c.entries[address]; !exists && len(c.entries) >= c.max {
		evicted = c.evictLocked()
	}
	c.entries[address] = a
	c.mu.Unlock()

	c.observe(CacheEvict, evicted)
	c.observe(CacheStore, 1)
}

func (c *DeadCache) evictLocked() int {
	n := len(c.entries) / 5
	if n == 0 {
		n = 1
	}
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	rand.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	for _, k := range keys[:n] {
		delete(c.entries, k)
	}
	return n
}

// Delete drops address and reports whether it was cached.
func (c *DeadCache) Delete(address string) bool {
	c.mu.Lock()
	_, ok := c.entries[address]
	delete(c.entries, address)
	c.mu.Unlock()
	if ok {
		c.observe(CacheInvalidate, 1)
	}
	return ok
}

// Len returns the number of cached addresses.
func (c *DeadCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// AddressActivity drops addresses that just gained new activity.
func (c *DeadCache) AddressActivity(addresses []string) {
	c.mu.Lock()
	dropped := 0
	for _, a := range addresses {
		if _, ok := c.entries[a]; ok {
			delete(c.entries, a)
			dropped++
		}
	}
	c.mu.Unlock()
	c.observe(CacheInvalidate, dropped)
}
