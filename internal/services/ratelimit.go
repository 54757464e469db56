package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/a2p-backend/internal/platform/logger"
)

// RateLimiter enforces per-policy fixed windows. Allow returns false when
// the actor has exhausted the policy's request budget for the current
// window.
type RateLimiter interface {
	Allow(ctx context.Context, key string, maxRequests, windowSeconds int) (bool, error)
	Close() error
}

type redisRateLimiter struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewRedisRateLimiter(log *logger.Logger, addr string) (RateLimiter, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &redisRateLimiter{
		log: log.With("service", "RateLimiter"),
		rdb: rdb,
	}, nil
}

func (rl *redisRateLimiter) Allow(ctx context.Context, key string, maxRequests, windowSeconds int) (bool, error) {
	if maxRequests <= 0 || windowSeconds <= 0 {
		return true, nil
	}
	count, err := rl.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := rl.rdb.Expire(ctx, key, time.Duration(windowSeconds)*time.Second).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return count <= int64(maxRequests), nil
}

func (rl *redisRateLimiter) Close() error {
	return rl.rdb.Close()
}

// noopRateLimiter admits everything. Used when no redis address is
// configured.
type noopRateLimiter struct{}

func NewNoopRateLimiter() RateLimiter { return noopRateLimiter{} }

func (noopRateLimiter) Allow(ctx context.Context, key string, maxRequests, windowSeconds int) (bool, error) {
	return true, nil
}

func (noopRateLimiter) Close() error { return nil }
