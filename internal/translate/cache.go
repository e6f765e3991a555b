package translate

import "sync"

// Entry is a cached translation and the service that produced it.
type Entry struct {
	Text    string `json:"text"`
	Service string `json:"service"`
}

type cacheKey struct {
	from, to, text string
}

// Cache is an unbounded in-memory translation cache. It lives as long as the process.
type Cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]Entry
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]Entry)}
}

// Get returns the entry for (from, to, text).
func (c *Cache) Get(from, to, text string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[cacheKey{from, to, text}]
	return e, ok
}

// Put stores an entry, replacing any previous one.
func (c *Cache) Put(from, to, text string, e Entry) {
	c.mu.Lock()
	c.entries[cacheKey{from, to, text}] = e
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
