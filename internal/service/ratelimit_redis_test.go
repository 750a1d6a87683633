package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/storefront/internal/service"
)

func newTestRedisLimiter(t *testing.T, limit int, window time.Duration, hooks ...redis.Hook) (*service.RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	for _, h := range hooks {
		client.AddHook(h)
	}
	t.Cleanup(func() { client.Close() })
	return service.NewRedisLimiter(client, limit, window), mr
}

// failExpireOnce fails the first command batch that carries an EXPIRE.
type failExpireOnce struct {
	failed bool
}

func (h *failExpireOnce) BeforeProcess(ctx context.Context, _ redis.Cmder) (context.Context, error) {
	return ctx, nil
}

func (h *failExpireOnce) AfterProcess(context.Context, redis.Cmder) error { return nil }

func (h *failExpireOnce) BeforeProcessPipeline(ctx context.Context, cmds []redis.Cmder) (context.Context, error) {
	if h.failed {
		return ctx, nil
	}
	for _, cmd := range cmds {
		if cmd.Name() == "expire" {
			h.failed = true
			return ctx, errors.New("connection reset")
		}
	}
	return ctx, nil
}

func (h *failExpireOnce) AfterProcessPipeline(context.Context, []redis.Cmder) error { return nil }

func TestRedisLimiter_AllowsUpToLimit(t *testing.T) {
	limiter, _ := newTestRedisLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "request %d should be allowed", i+1)
	}

	ok, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok, "4th request should be denied")

	ok, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok, "other keys have their own window")
}

func TestRedisLimiter_WindowExpires(t *testing.T) {
	limiter, mr := newTestRedisLimiter(t, 1, 10*time.Second)
	ctx := context.Background()

	ok, err := limiter.Allow(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = limiter.Allow(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	assert.Equal(t, 10*time.Second, mr.TTL("storefront:ratelimit:k"))

	mr.FastForward(11 * time.Second)

	ok, err = limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok, "new window should allow again")
}

func TestRedisLimiter_BackendDown(t *testing.T) {
	limiter, mr := newTestRedisLimiter(t, 1, time.Minute)
	mr.Close()

	_, err := limiter.Allow(context.Background(), "k")
	assert.Error(t, err)
}

func TestRedisLimiter_FailedExpireDoesNotLockOut(t *testing.T) {
	hook := &failExpireOnce{}
	limiter, mr := newTestRedisLimiter(t, 2, time.Minute, hook)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "k")
	require.Error(t, err)
	require.True(t, hook.failed)
	assert.False(t, mr.Exists("storefront:ratelimit:k"), "counter must not be written without its window")

	for i := 0; i < 2; i++ {
		ok, err := limiter.Allow(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok, "request %d should be allowed", i+1)
	}
	ok, err := limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, mr.TTL("storefront:ratelimit:k"))

	mr.FastForward(2 * time.Minute)

	ok, err = limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok, "client must be allowed again after the window")
}

func TestRedisLimiter_CounterWithoutWindowRecovers(t *testing.T) {
	limiter, mr := newTestRedisLimiter(t, 2, time.Minute)
	ctx := context.Background()

	// A counter over the limit that has no expiry.
	require.NoError(t, mr.Set("storefront:ratelimit:k", "50"))

	ok, err := limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, mr.TTL("storefront:ratelimit:k"), "window must be attached")

	mr.FastForward(2 * time.Minute)

	ok, err = limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_WindowNotExtendedByLaterRequests(t *testing.T) {
	limiter, mr := newTestRedisLimiter(t, 5, 10*time.Second)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "k")
	require.NoError(t, err)
	mr.FastForward(4 * time.Second)
	_, err = limiter.Allow(ctx, "k")
	require.NoError(t, err)

	assert.Equal(t, 6*time.Second, mr.TTL("storefront:ratelimit:k"))
}
