package persistence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const panelCachePrefix = "panel:"

// PanelCache stores recent control panel read responses so the usage and
// info screens do not hit the panel on every tap. Misses and Redis errors
// both fall through to a live call.
type PanelCache struct {
	redis *Redis
	ttl   time.Duration
}

// NewPanelCache builds a cache over the shared Redis connection. A zero TTL
// disables caching.
func NewPanelCache(r *Redis, ttl time.Duration) *PanelCache {
	return &PanelCache{redis: r, ttl: ttl}
}

// Get returns the cached response for key and whether it was present.
func (c *PanelCache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil || c.redis == nil || c.redis.Client == nil || c.ttl <= 0 {
		return "", false
	}
	val, err := c.redis.Client.Get(ctx, panelCachePrefix+key).Result()
	if err != nil {
		if err != redis.Nil {
			// treat transient redis failures as a miss
		}
		return "", false
	}
	return val, true
}

// Set stores a response under key for the configured TTL.
func (c *PanelCache) Set(ctx context.Context, key, value string) {
	if c == nil || c.redis == nil || c.redis.Client == nil || c.ttl <= 0 {
		return
	}
	_ = c.redis.Client.Set(ctx, panelCachePrefix+key, value, c.ttl).Err()
}

// Invalidate drops a cached response, used after mutating panel calls.
func (c *PanelCache) Invalidate(ctx context.Context, key string) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return
	}
	_ = c.redis.Client.Del(ctx, panelCachePrefix+key).Err()
}
