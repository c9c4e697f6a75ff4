package catalog

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fjod/go_shop/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewRedisCache(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return cache, mr, cleanup
}

func TestCacheGet_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	p := &domain.Product{
		ID:        1,
		Name:      "Wireless Mouse",
		Price:     decimal.RequireFromString("24.99"),
		Category:  "Electronics",
		CreatedAt: time.Now().UTC(),
	}

	data, _ := json.Marshal(p)
	mr.Set(cacheKey(p.ID), string(data))

	result, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Wireless Mouse", result.Name)
	assert.True(t, result.Price.Equal(p.Price))
}

func TestCacheGet_CacheMiss(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	_, err := cache.Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCacheSet_RoundTrip(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	p := &domain.Product{
		ID:    2,
		Name:  "Notebook",
		Price: decimal.RequireFromString("9.99"),
	}

	require.NoError(t, cache.Set(ctx, p))
	assert.True(t, mr.Exists(cacheKey(2)))

	got, err := cache.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Notebook", got.Name)
	assert.True(t, got.Price.Equal(p.Price))
}

func TestCacheDelete(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, &domain.Product{ID: 3, Name: "Bottle"}))
	require.True(t, mr.Exists(cacheKey(3)))

	require.NoError(t, cache.Delete(ctx, 3))
	assert.False(t, mr.Exists(cacheKey(3)))
}
