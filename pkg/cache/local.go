package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// LocalCache is an in-process Cache backed by go-cache. Values are stored
// JSON-encoded so callers see the same copy semantics as with Redis.
type LocalCache struct {
	store *gocache.Cache
}

func NewLocalCache(defaultExpiration, cleanupInterval time.Duration) *LocalCache {
	return &LocalCache{
		store: gocache.New(defaultExpiration, cleanupInterval),
	}
}

func (l *LocalCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	l.store.Set(key, data, expiration)
	return nil
}

func (l *LocalCache) Get(_ context.Context, key string, dest interface{}) error {
	value, found := l.store.Get(key)
	if !found {
		return ErrCacheMiss
	}
	data, ok := value.([]byte)
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (l *LocalCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		l.store.Delete(key)
	}
	return nil
}

func (l *LocalCache) Increment(_ context.Context, key string) (int64, error) {
	// Add only succeeds for a missing key, which seeds the counter.
	if err := l.store.Add(key, int64(1), gocache.NoExpiration); err == nil {
		return 1, nil
	}
	return l.store.IncrementInt64(key, 1)
}

func (l *LocalCache) GetInt64(_ context.Context, key string) (int64, error) {
	value, found := l.store.Get(key)
	if !found {
		return 0, nil
	}
	counter, _ := value.(int64)
	return counter, nil
}

func (l *LocalCache) Ping(context.Context) error {
	return nil
}

func (l *LocalCache) Close() error {
	l.store.Flush()
	return nil
}
