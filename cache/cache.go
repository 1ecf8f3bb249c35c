package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// entry holds a rendered page with its creation timestamp.
type entry struct {
	body      []byte
	createdAt time.Time
}

// Cache keeps rendered pages in memory. It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
	maxAge     time.Duration
}

// New creates a Cache holding at most maxEntries pages, each served for at
// most maxAge. maxAge <= 0 disables lookups.
func New(maxEntries int, maxAge time.Duration) *Cache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
		maxAge:     maxAge,
	}
}

// Key derives a cache key from the registry version and the page variant.
func Key(version string, variant ...string) string {
	h := sha256.New()
	h.Write([]byte(version))
	for _, v := range variant {
		h.Write([]byte("|"))
		h.Write([]byte(v))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns a cached page younger than maxAge.
func (c *Cache) Get(key string) ([]byte, bool) {
	if c.maxAge <= 0 {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok || time.Since(e.createdAt) > c.maxAge {
		return nil, false
	}
	return e.body, true
}

// Set stores a page. At capacity, expired entries are dropped first, then a
// random one.
func (c *Cache) Set(key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.store[key]; !exists && len(c.store) >= c.maxEntries {
		cutoff := time.Now().Add(-c.maxAge)
		for k, e := range c.store {
			if e.createdAt.Before(cutoff) {
				delete(c.store, k)
			}
		}
		// Map iteration order is random.
		for k := range c.store {
			if len(c.store) < c.maxEntries {
				break
			}
			delete(c.store, k)
		}
	}

	c.store[key] = &entry{body: body, createdAt: time.Now()}
}

// Len returns the number of cached pages.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}
