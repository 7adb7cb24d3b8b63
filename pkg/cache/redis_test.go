package cache

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs only when REDIS_TEST_HOST points at a disposable Redis.
func TestRedisCache_Integration(t *testing.T) {
	host := os.Getenv("REDIS_TEST_HOST")
	if host == "" {
		t.Skip("REDIS_TEST_HOST not set")
	}
	port, _ := strconv.Atoi(os.Getenv("REDIS_TEST_PORT"))
	if port == 0 {
		port = 6379
	}

	ctx := context.Background()
	c, err := NewRedisCache(ctx, &RedisConfig{
		Host:        host,
		Port:        port,
		DB:          15,
		PoolSize:    2,
		DialTimeout: time.Second,
		ReadTimeout: time.Second,
	})
	require.NoError(t, err)
	defer c.Close()

	key := "afyalink:test:" + strconv.FormatInt(time.Now().UnixNano(), 10)
	defer c.Delete(ctx, key, key+":gen")

	var got cachedPage
	assert.ErrorIs(t, c.Get(ctx, key, &got), ErrCacheMiss)

	require.NoError(t, c.Set(ctx, key, cachedPage{Names: []string{"x"}, Total: 1}, time.Minute))
	require.NoError(t, c.Get(ctx, key, &got))
	assert.Equal(t, int64(1), got.Total)

	n, err := c.Increment(ctx, key+":gen")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = c.GetInt64(ctx, key+":gen")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
