package sources

import (
	"context"
	"encoding/json"
	"time"

	platformredis "luminary/internal/platform/redis"
	"luminary/internal/scan/models"
)

// RedisCache is the production Cache implementation. Failures on either
// side are swallowed: a broken cache must never break a scan.
type RedisCache struct {
	client *platformredis.Client
	ttl    time.Duration
}

// NewRedisCache wraps a platform redis client. Returns nil if the client is
// nil (Redis not configured), which callers treat as no cache.
func NewRedisCache(client *platformredis.Client, ttl time.Duration) *RedisCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]models.SourceResult, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var results []models.SourceResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, false
	}
	return results, true
}

func (c *RedisCache) Set(ctx context.Context, key string, results []models.SourceResult) {
	raw, err := json.Marshal(results)
	if err != nil {
		return
	}
	c.client.SetEx(ctx, key, raw, c.ttl)
}
