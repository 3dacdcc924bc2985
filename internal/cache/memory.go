package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache implements in-memory label caching
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache with the given TTL
func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	// Cleanup interval 0 disables the janitor; request-scoped caches are
	// discarded with the request, so expired entries never accumulate.
	return &MemoryCache{
		cache: gocache.New(defaultTTL, 0),
	}
}

// NewRequestScoped creates a cache sized for a single request's lifetime
func NewRequestScoped() *MemoryCache {
	return NewMemoryCache(gocache.NoExpiration)
}

// Get retrieves a label from the cache
func (c *MemoryCache) Get(key string) (string, bool) {
	if val, found := c.cache.Get(key); found {
		return val.(string), true
	}
	return "", false
}

// Set stores a label in the cache
func (c *MemoryCache) Set(key string, value string) {
	c.cache.SetDefault(key, value)
}
