package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/basket-service/basket_service/pkg/metrics"
)

type RedisConfig struct {
	Host       string
	Port       int
	Password   string
	DB         int
	MaxRetries int
	PoolSize   int
}

type RedisCache struct {
	client     *redis.Client
	logger     *zap.Logger
	prefix     string
	defaultTTL time.Duration
}

func NewRedisCache(cfg RedisConfig, defaultTTL time.Duration, logger *zap.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:       fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:   cfg.Password,
		DB:         cfg.DB,
		MaxRetries: cfg.MaxRetries,
		PoolSize:   cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{
		client:     client,
		logger:     logger,
		prefix:     "basket_service:",
		defaultTTL: defaultTTL,
	}, nil
}

// NewPayloadCache connects to Redis and falls back to memory when it cannot
func NewPayloadCache(cfg RedisConfig, defaultTTL time.Duration, logger *zap.Logger) PayloadCache {
	rc, err := NewRedisCache(cfg, defaultTTL, logger)
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory payload cache", zap.Error(err))
		return NewMemoryCache()
	}
	return rc
}

func (rc *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	defer func() { metrics.RecordRedisOperation("get", time.Since(start).Seconds()) }()

	val, err := rc.client.Get(ctx, rc.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (rc *RedisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	start := time.Now()
	defer func() { metrics.RecordRedisOperation("set", time.Since(start).Seconds()) }()

	if ttl == 0 {
		ttl = rc.defaultTTL
	}
	return rc.client.Set(ctx, rc.prefix+key, val, ttl).Err()
}

func (rc *RedisCache) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	var keys []string
	iter := rc.client.Scan(ctx, 0, rc.prefix+prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("scan %s: %w", prefix, err)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	n, err := rc.client.Del(ctx, keys...).Result()
	return int(n), err
}

func (rc *RedisCache) Backend() string { return "redis" }

// Client exposes the underlying client for health checks
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

func (rc *RedisCache) Close() error {
	return rc.client.Close()
}
