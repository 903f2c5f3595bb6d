package cache

import (
	"context"
	"strings"
	"time"

	"github.com/flexprice/billing-engine/internal/config"
	goCache "github.com/patrickmn/go-cache"
)

// DefaultExpiration is the default expiration time for cache entries
const DefaultExpiration = 30 * time.Minute

// DefaultCleanupInterval is how often expired items are removed from the cache
const DefaultCleanupInterval = 1 * time.Hour

// InMemoryCache implements the Cache interface using github.com/patrickmn/go-cache.
// All operations are no-ops when caching is disabled in the configuration.
type InMemoryCache struct {
	cache   *goCache.Cache
	enabled bool
}

// NewInMemoryCache creates a new InMemoryCache instance
func NewInMemoryCache(cfg *config.Configuration) *InMemoryCache {
	expiration := DefaultExpiration
	enabled := false
	if cfg != nil {
		enabled = cfg.Cache.Enabled
		if cfg.Cache.TTL > 0 {
			expiration = cfg.Cache.TTL
		}
	}

	return &InMemoryCache{
		cache:   goCache.New(expiration, DefaultCleanupInterval),
		enabled: enabled,
	}
}

// Enabled reports whether values are stored at all
func (c *InMemoryCache) Enabled() bool {
	return c.enabled
}

// Get retrieves a value from the cache
func (c *InMemoryCache) Get(_ context.Context, key string) (interface{}, bool) {
	if !c.enabled {
		return nil, false
	}
	return c.cache.Get(key)
}

// Set adds a value to the cache with the specified expiration
func (c *InMemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) {
	if !c.enabled {
		return
	}
	if expiration == 0 {
		expiration = goCache.DefaultExpiration
	}
	c.cache.Set(key, value, expiration)
}

// Delete removes a key from the cache
func (c *InMemoryCache) Delete(_ context.Context, key string) {
	if !c.enabled {
		return
	}
	c.cache.Delete(key)
}

// DeleteByPrefix removes all keys with the given prefix
func (c *InMemoryCache) DeleteByPrefix(_ context.Context, prefix string) {
	if !c.enabled {
		return
	}
	for k := range c.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			c.cache.Delete(k)
		}
	}
}

// Flush removes all items from the cache
func (c *InMemoryCache) Flush(_ context.Context) {
	if !c.enabled {
		return
	}
	c.cache.Flush()
}

// ItemCount returns the number of cached items, expired or not
func (c *InMemoryCache) ItemCount() int {
	return c.cache.ItemCount()
}
