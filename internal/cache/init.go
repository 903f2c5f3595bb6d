package cache

import (
	"github.com/flexprice/billing-engine/internal/config"
	"github.com/flexprice/billing-engine/internal/logger"
)

// Initialize builds the cache from the configuration and reports its state
func Initialize(cfg *config.Configuration, log *logger.Logger) Cache {
	c := NewInMemoryCache(cfg)
	if c.Enabled() {
		log.Infow("cache enabled", "ttl", cfg.Cache.TTL.String())
	} else {
		log.Debug("cache disabled")
	}
	return c
}
