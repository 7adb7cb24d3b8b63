package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPage struct {
	Names []string `json:"names"`
	Total int64    `json:"total"`
}

func TestLocalCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(time.Minute, time.Minute)

	require.NoError(t, c.Set(ctx, "k", cachedPage{Names: []string{"a", "b"}, Total: 2}, time.Minute))

	var got cachedPage
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, []string{"a", "b"}, got.Names)
	assert.Equal(t, int64(2), got.Total)
}

func TestLocalCache_Miss(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(time.Minute, time.Minute)

	var got cachedPage
	assert.ErrorIs(t, c.Get(ctx, "absent", &got), ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "short", cachedPage{}, time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	assert.ErrorIs(t, c.Get(ctx, "short", &got), ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "gone", cachedPage{}, time.Minute))
	require.NoError(t, c.Delete(ctx, "gone"))
	assert.ErrorIs(t, c.Get(ctx, "gone", &got), ErrCacheMiss)
}

func TestLocalCache_IncrementConcurrent(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(time.Minute, time.Minute)

	value, err := c.GetInt64(ctx, "gen")
	require.NoError(t, err)
	assert.Equal(t, int64(0), value)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Increment(ctx, "gen")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	value, err = c.GetInt64(ctx, "gen")
	require.NoError(t, err)
	assert.Equal(t, int64(50), value)
}
