package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stationeryhq/ledger/internal/config"
)

func TestNoopAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	var c Cache = Noop{}

	assert.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var dest map[string]int
	hit, err := c.Get(ctx, "k", &dest)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, dest)

	assert.NoError(t, c.Delete(ctx, "k"))
}

func TestConnectFailsWithoutServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	rdb, err := Connect(ctx, config.CacheConfig{RedisAddr: "127.0.0.1:1"})
	assert.Error(t, err)
	assert.Nil(t, rdb)
}

// testRedis connects to REDIS_ADDR (default localhost:6379) or skips.
func testRedis(t *testing.T) *RedisCache {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	rdb, err := Connect(ctx, config.CacheConfig{RedisAddr: addr})
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })
	return NewRedisCache(rdb)
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c := testRedis(t)
	ctx := context.Background()

	type summary struct {
		Total string `json:"total"`
		Count int    `json:"count"`
	}
	key := "test:" + uuid.NewString()
	t.Cleanup(func() { c.Delete(context.Background(), key) })

	var got summary
	hit, err := c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, key, summary{Total: "15.05", Count: 3}, time.Minute))

	ttl, err := c.rdb.TTL(ctx, KeyPrefix+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0), "key is stored under the prefix with a ttl")

	hit, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, summary{Total: "15.05", Count: 3}, got)

	require.NoError(t, c.Delete(ctx, key))
	hit, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	assert.NoError(t, c.Delete(ctx), "deleting no keys is a no-op")
}

func TestRedisCacheUndecodableValue(t *testing.T) {
	c := testRedis(t)
	ctx := context.Background()

	key := "test:" + uuid.NewString()
	t.Cleanup(func() { c.Delete(context.Background(), key) })
	require.NoError(t, c.rdb.Set(ctx, KeyPrefix+key, "not json", time.Minute).Err())

	var dest map[string]int
	hit, err := c.Get(ctx, key, &dest)
	assert.Error(t, err)
	assert.False(t, hit)
}
