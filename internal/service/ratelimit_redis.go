package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisLimiterNamespace = "storefront:ratelimit:"

// RedisLimiter is a fixed-window limiter shared by every server instance
// through Redis. The window starts at the first request for a key.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewRedisLimiter allows up to limit requests per key in each window.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: int64(limit), window: window}
}

// Allow increments the counter for key and reports whether it is still
// within the limit.
//
// INCR and EXPIRE NX run in one MULTI/EXEC, so a counter never exists
// without a window, and a counter left without one is given a window on
// the next call. EXPIRE NX needs Redis 7 or later.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := redisLimiterNamespace + key

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("check rate window: %w", err)
	}
	return incr.Val() <= l.limit, nil
}
