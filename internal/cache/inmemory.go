package cache

import (
	"context"
	"strings"
	"time"

	"github.com/flexprice/invoicedoc/internal/config"
	goCache "github.com/patrickmn/go-cache"
)

// DefaultExpiration is the default expiration time for cache entries
const DefaultExpiration = 10 * time.Minute

// DefaultCleanupInterval is how often expired items are removed from the cache
const DefaultCleanupInterval = 1 * time.Minute

// InMemoryCache implements the Cache interface using github.com/patrickmn/go-cache
type InMemoryCache struct {
	cache *goCache.Cache
}

// NewInMemoryCache creates a new InMemoryCache sized by the preview config
func NewInMemoryCache(cfg *config.Configuration) *InMemoryCache {
	expiration, cleanup := DefaultExpiration, DefaultCleanupInterval
	if cfg != nil {
		if cfg.Preview.TTL > 0 {
			expiration = cfg.Preview.TTL
		}
		if cfg.Preview.CleanupInterval > 0 {
			cleanup = cfg.Preview.CleanupInterval
		}
	}
	return NewInMemoryCacheWithExpiry(expiration, cleanup)
}

// NewInMemoryCacheWithExpiry creates a new InMemoryCache with explicit timings
func NewInMemoryCacheWithExpiry(expiration, cleanupInterval time.Duration) *InMemoryCache {
	return &InMemoryCache{
		cache: goCache.New(expiration, cleanupInterval),
	}
}

// Get retrieves a value from the cache
func (c *InMemoryCache) Get(_ context.Context, key string) (interface{}, bool) {
	return c.cache.Get(key)
}

func (c *InMemoryCache) GetWithExpiration(_ context.Context, key string) (interface{}, time.Time, bool) {
	return c.cache.GetWithExpiration(key)
}

// Set adds a value to the cache with the specified expiration
func (c *InMemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) {
	if expiration == 0 {
		expiration = goCache.DefaultExpiration
	}
	c.cache.Set(key, value, expiration)
}

// Delete removes a key from the cache
func (c *InMemoryCache) Delete(_ context.Context, key string) {
	c.cache.Delete(key)
}

// DeleteByPrefix removes all keys with the given prefix
func (c *InMemoryCache) DeleteByPrefix(_ context.Context, prefix string) {
	for k := range c.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			c.cache.Delete(k)
		}
	}
}

func (c *InMemoryCache) OnEvicted(fn func(key string, value interface{})) {
	c.cache.OnEvicted(fn)
}

// ItemCount returns the number of live entries, expired ones included until cleanup
func (c *InMemoryCache) ItemCount() int {
	return c.cache.ItemCount()
}

// Flush removes all items from the cache
func (c *InMemoryCache) Flush(_ context.Context) {
	c.cache.Flush()
}
