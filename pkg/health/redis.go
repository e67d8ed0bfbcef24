package health

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisProbeKey = "basket_service:__health_check__"

// RedisChecker checks Redis connectivity
type RedisChecker struct {
	client  redis.UniversalClient
	timeout time.Duration
}

// NewRedisChecker creates a new Redis health checker
func NewRedisChecker(client redis.UniversalClient, timeout time.Duration) *RedisChecker {
	if timeout == 0 {
		timeout = 3 * time.Second
	}
	return &RedisChecker{client: client, timeout: timeout}
}

// Check pings Redis and round-trips a probe key
func (c *RedisChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.client.Ping(ctx).Err(); err != nil {
		return NewUnhealthyResult("redis", err).WithDuration(time.Since(start))
	}

	probe := time.Now().UnixNano()
	if err := c.client.Set(ctx, redisProbeKey, probe, 10*time.Second).Err(); err != nil {
		return NewUnhealthyResult("redis", err).WithDuration(time.Since(start))
	}
	val, err := c.client.Get(ctx, redisProbeKey).Int64()
	if err != nil {
		return NewUnhealthyResult("redis", err).WithDuration(time.Since(start))
	}
	if val != probe {
		return NewDegradedResult("redis", "probe value mismatch").WithDuration(time.Since(start))
	}
	c.client.Del(ctx, redisProbeKey)

	return NewHealthyResult("redis", "connected").WithDuration(time.Since(start))
}

// Name returns the checker name
func (c *RedisChecker) Name() string {
	return "redis"
}
