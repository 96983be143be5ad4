package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cartshare/backend/internal/ratelimit"
)

func TestMemoryStoreLimit(t *testing.T) {
	ctx := context.Background()
	store := ratelimit.NewMemoryStore()
	limiter := ratelimit.New(store, 3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "user:1")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := limiter.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.False(t, ok, "fourth request in the window is rejected")

	// Other keys are unaffected.
	ok, err = limiter.Allow(ctx, "user:2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStoreReset(t *testing.T) {
	ctx := context.Background()
	store := ratelimit.NewMemoryStore()
	limiter := ratelimit.New(store, 1, time.Minute)

	ok, err := limiter.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = limiter.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.False(t, ok)

	store.Reset()

	ok, err = limiter.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, ok, "reset store starts counting from zero")
}

func TestMemoryStoreWindowExpiry(t *testing.T) {
	ctx := context.Background()
	store := ratelimit.NewMemoryStore()

	n, err := store.Incr(ctx, "k", 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = store.Incr(ctx, "k", 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	time.Sleep(20 * time.Millisecond)

	n, err = store.Incr(ctx, "k", 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "expired window starts over")
}

func TestRedisStoreLimit(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	store := &ratelimit.RedisStore{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	limiter := ratelimit.New(store, 2, time.Minute)

	ok, err := limiter.Allow(ctx, "ip:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = limiter.Allow(ctx, "ip:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = limiter.Allow(ctx, "ip:10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreSetsExpiry(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	store := &ratelimit.RedisStore{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}

	n, err := store.Incr(ctx, "rl:test", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// TTL is set on first increment only.
	assert.Greater(t, mr.TTL("rl:test"), time.Duration(0))

	mr.FastForward(2 * time.Minute)

	n, err = store.Incr(ctx, "rl:test", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "counter expired with the window")
}
