package fonts

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// DefaultCache is the process-wide font cache. Entries are never evicted.
var DefaultCache = NewCache()

// Cache maps "<family>-<px>" keys to shared font handles. Concurrent
// requests for a key that is being built wait for that build and share its
// handle.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Font
	builds  singleflight.Group
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Font)}
}

// Get returns the handle stored under key.
func (c *Cache) Get(key string) (*Font, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.entries[key]
	return f, ok
}

// GetOrCreate returns the handle under key, calling build to create and
// store it on a miss. build must not call back into the cache; the
// resolver's builds only instantiate outline data.
func (c *Cache) GetOrCreate(key string, build func() (*Font, error)) (*Font, error) {
	if f, ok := c.Get(key); ok {
		return f, nil
	}
	v, err, _ := c.builds.Do(key, func() (any, error) {
		if f, ok := c.Get(key); ok {
			return f, nil
		}
		f, err := build()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = f
		c.mu.Unlock()
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Font), nil
}

// Len returns the number of cached handles.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
