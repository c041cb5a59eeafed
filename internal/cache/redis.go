// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	rd "github.com/redis/go-redis/v9"

	"github.com/stationeryhq/ledger/internal/config"
)

// KeyPrefix namespaces every key this service writes.
const KeyPrefix = "stationery:"

type RedisCache struct {
	rdb *rd.Client
}

// Connect dials Redis and verifies the connection with PING.
func Connect(ctx context.Context, cfg config.CacheConfig) (*rd.Client, error) {
	rdb := rd.NewClient(&rd.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	return rdb, nil
}

func NewRedisCache(rdb *rd.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := c.rdb.Get(ctx, KeyPrefix+key).Bytes()
	if errors.Is(err, rd.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.rdb.Set(ctx, KeyPrefix+key, raw, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = KeyPrefix + k
	}
	return c.rdb.Del(ctx, prefixed...).Err()
}
