package httpcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key", []byte("value"), 0))

	got, err := cache.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)
}

func TestMemoryCacheMiss(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()

	_, err := cache.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "short", []byte("v"), 10*time.Millisecond))
	time.Sleep(25 * time.Millisecond)

	_, err := cache.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrNotFound)
	// The expired entry was reaped on access.
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryCacheSweep(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", []byte("1"), 5*time.Millisecond))
	require.NoError(t, cache.Set(ctx, "b", []byte("2"), time.Hour))

	time.Sleep(10 * time.Millisecond)
	cache.sweep(time.Now())

	assert.Equal(t, 1, cache.Len())
	_, err := cache.Get(ctx, "b")
	assert.NoError(t, err)
}

func TestMemoryCacheDelete(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key", []byte("v"), 0))
	require.NoError(t, cache.Delete(ctx, "key"))
	require.NoError(t, cache.Delete(ctx, "key"))

	_, err := cache.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCacheNegativeTTL(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()

	err := cache.Set(context.Background(), "key", []byte("v"), -time.Second)
	assert.ErrorIs(t, err, ErrInvalidTTL)
}

func TestMemoryCacheReturnsCopies(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()
	ctx := context.Background()

	original := []byte("immutable")
	require.NoError(t, cache.Set(ctx, "key", original, 0))

	first, err := cache.Get(ctx, "key")
	require.NoError(t, err)
	first[0] = 'X'

	second, err := cache.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("immutable"), second)

	// Mutating the caller's slice after Set must not leak in either.
	original[0] = 'Y'
	third, err := cache.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("immutable"), third)
}

func TestMemoryCacheClose(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key", []byte("v"), 0))
	require.NoError(t, cache.Health(ctx))
	require.NoError(t, cache.Close())
	require.NoError(t, cache.Close())

	_, err := cache.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, cache.Set(ctx, "key", []byte("v"), 0), ErrClosed)
	assert.ErrorIs(t, cache.Delete(ctx, "key"), ErrClosed)
	assert.ErrorIs(t, cache.Health(ctx), ErrClosed)
}
