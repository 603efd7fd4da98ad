package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fintalk/fintalk/internal/config"
)

const defaultTTL = time.Hour

// Cache is a thin JSON cache over redis. A nil *Cache (or one built without
// a redis address) is a no-op, so callers never branch on availability.
type Cache struct {
	client *redis.Client
}

// New connects to redis when an address is configured, otherwise returns a
// disabled cache.
func New(cfg config.AppConfig) *Cache {
	if cfg.RedisAddr == "" {
		return &Cache{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	// Ping failure is tolerated; the cache degrades to misses.
	_ = client.Ping(ctx).Err()
	return &Cache{client: client}
}

// GetBytes returns the cached payload for key.
func (c *Cache) GetBytes(key string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

// SetJSON marshals v and stores it under key.
func (c *Cache) SetJSON(key string, v interface{}, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = c.client.Set(ctx, key, b, ttl).Err()
}

// InvalidateByPrefix deletes keys matching prefix using SCAN, bounded to a
// few rounds to keep invalidation cheap.
func (c *Cache) InvalidateByPrefix(prefix string) {
	if c == nil || c.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	var cursor uint64
	for i := 0; i < 10; i++ {
		keys, cur, err := c.client.Scan(ctx, cursor, prefix+"*", 1000).Result()
		if err != nil {
			break
		}
		cursor = cur
		if len(keys) > 0 {
			pipe := c.client.Pipeline()
			for _, k := range keys {
				pipe.Del(ctx, k)
			}
			_, _ = pipe.Exec(ctx)
		}
		if cursor == 0 {
			break
		}
	}
}
