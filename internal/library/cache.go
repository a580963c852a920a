package library

import (
	"sync"

	"github.com/Faultbox/meshforge/pkg/mesh"
)

// Stats reports cache usage.
type Stats struct {
	Hits    int
	Misses  int
	Entries int
}

// Cache is an in-memory cache of decoded batches.
type Cache struct {
	data map[string]*mesh.Batch
	mu   sync.Mutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*mesh.Batch),
	}
}

// Get retrieves a batch from the cache.
func (c *Cache) Get(key string) (*mesh.Batch, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return b, ok
}

// Set stores a batch in the cache.
func (c *Cache) Set(key string, b *mesh.Batch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
}

// Clear empties the cache and resets its statistics.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*mesh.Batch)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Entries: len(c.data)}
}
