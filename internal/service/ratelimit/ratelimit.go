package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/dealdesk/dealdesk/internal/logger"
)

// Limiter throttles API clients by key (usually the client IP)
type Limiter interface {
	// Allow records one request for key and reports whether it is
	// still under the configured limit for the current window
	Allow(ctx context.Context, key string) (bool, error)

	// Attempts returns the request count for key in the current window
	Attempts(ctx context.Context, key string) (int, error)
}

// Config configures the redis-backed limiter
type Config struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

type redisLimiter struct {
	client   *redis.Client
	log      logger.Logger
	requests int
	window   time.Duration
}

// New creates a limiter backed by redis, or a no-op limiter when disabled
func New(config Config, client *redis.Client, log logger.Logger) Limiter {
	if !config.Enabled {
		log.Info(context.Background(), "rate limiting disabled", nil)
		return &noopLimiter{}
	}
	return &redisLimiter{
		client:   client,
		log:      log,
		requests: config.Requests,
		window:   config.Window,
	}
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	counterKey := fmt.Sprintf("ratelimit:%s", key)

	pipeline := l.client.Pipeline()
	incrCmd := pipeline.Incr(ctx, counterKey)
	pipeline.Expire(ctx, counterKey, l.window)
	if _, err := pipeline.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	count := int(incrCmd.Val())
	allowed := count <= l.requests
	if !allowed {
		l.log.Warn(ctx, "rate limit exceeded", map[string]interface{}{
			"key":   key,
			"count": count,
			"limit": l.requests,
		})
	}
	return allowed, nil
}

func (l *redisLimiter) Attempts(ctx context.Context, key string) (int, error) {
	counterKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := l.client.Get(ctx, counterKey).Int()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get attempts: %w", err)
	}
	return count, nil
}

// noopLimiter allows every request
type noopLimiter struct{}

func (n *noopLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return true, nil
}

func (n *noopLimiter) Attempts(ctx context.Context, key string) (int, error) {
	return 0, nil
}
