package di

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/basket-service/basket_service/internal/adapters/remote"
	"github.com/basket-service/basket_service/internal/domain/catalog"
	"github.com/basket-service/basket_service/internal/domain/entities"
	"github.com/basket-service/basket_service/internal/domain/services/basket"
	"github.com/basket-service/basket_service/internal/domain/services/orchestrator"
	"github.com/basket-service/basket_service/internal/domain/services/projection"
	"github.com/basket-service/basket_service/internal/infrastructure/cache"
	"github.com/basket-service/basket_service/internal/infrastructure/config"
	"github.com/basket-service/basket_service/internal/workers/cache_warmer"
	"github.com/basket-service/basket_service/pkg/circuitbreaker"
	"github.com/basket-service/basket_service/pkg/health"
	"github.com/basket-service/basket_service/pkg/logger"
	"github.com/basket-service/basket_service/pkg/ratelimit"
	"github.com/basket-service/basket_service/pkg/retry"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *logger.Logger
	ZapLog *zap.Logger

	// Infrastructure
	PayloadCache     cache.PayloadCache
	CacheInvalidator *cache.CacheInvalidator
	RedisClient      *redis.Client
	RateLimiter      ratelimit.Limiter

	// External Services
	RemoteClient *remote.Client

	// Domain
	Catalog       *catalog.Catalog
	Registry      *orchestrator.Registry
	Sessions      *orchestrator.Sessions
	Builder       *projection.Builder
	BasketService *basket.Service

	// Workers
	CacheWarmer *cache_warmer.Scheduler

	HealthChecker *health.HealthChecker

	refreshers []cache_warmer.Refresher
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, log *logger.Logger) (*Container, error) {
	zapLog := log.Zap()

	c := &Container{
		Config:  cfg,
		Logger:  log,
		ZapLog:  zapLog,
		Catalog: catalog.Default(),
	}

	c.initializeCache()

	c.RemoteClient = remote.NewClient(remote.Config{
		BaseURL:        cfg.Remote.BaseURL,
		Timeout:        config.Duration(cfg.Remote.Timeout),
		RateLimitRPS:   cfg.Remote.RateLimitRPS,
		RateLimitBurst: cfg.Remote.RateLimitBurst,
		Retry: retry.RetryConfig{
			MaxAttempts: cfg.Remote.MaxRetries,
			BaseDelay:   time.Duration(cfg.Remote.RetryBackoffMs) * time.Millisecond,
			MaxDelay:    5 * time.Second,
			Multiplier:  2.0,
		},
		Breaker: circuitbreaker.Config{
			MaxRequests: 3,
			Interval:    10 * time.Second,
			Timeout:     config.Duration(cfg.Remote.BreakerTimeout),
		},
	}, zapLog.Named("remote"))

	c.initializeRegistry()

	c.Sessions = orchestrator.NewSessions(c.Registry, log,
		orchestrator.WithFetchTimeout(config.Duration(cfg.Remote.FetchTimeout)))

	c.Builder = projection.NewBuilder(projection.Benchmarks{
		Rate3Y:         cfg.Projection.Benchmark3Y,
		Rate5Y:         cfg.Projection.Benchmark5Y,
		Rate10Y:        cfg.Projection.Benchmark10Y,
		TenYearHaircut: cfg.Projection.TenYearHaircut,
	})

	c.BasketService = basket.NewService(c.Catalog, c.Registry, c.Sessions, c.Builder, basket.Config{
		MinComparisonAmount: cfg.Projection.MinComparisonAmount,
		DefaultHorizon:      entities.Horizon(cfg.Projection.DefaultHorizon),
		DefaultAmount:       cfg.Projection.DefaultAmount,
		CompareConcurrency:  cfg.Projection.CompareConcurrency,
	}, log)

	warmer, err := cache_warmer.NewScheduler(c.refreshers, c.Sessions, &cache_warmer.Config{
		WarmSchedule:   cfg.Cache.WarmSchedule,
		SweepSchedule:  cfg.Cache.SweepSchedule,
		SessionIdleTTL: config.Duration(cfg.Cache.SessionIdleTTL),
		MaxConcurrent:  cfg.Projection.CompareConcurrency,
		WarmOnStart:    cfg.Cache.WarmOnStart,
		Timezone:       "UTC",
	}, zapLog.Named("cache_warmer"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache warmer: %w", err)
	}
	c.CacheWarmer = warmer

	c.initializeRateLimiter()
	c.initializeHealthChecks()

	return c, nil
}

func (c *Container) initializeCache() {
	ttl := config.Duration(c.Config.Cache.TTL)

	if c.Config.Redis.Host == "" {
		c.PayloadCache = cache.NewMemoryCache()
	} else {
		c.PayloadCache = cache.NewPayloadCache(cache.RedisConfig{
			Host:       c.Config.Redis.Host,
			Port:       c.Config.Redis.Port,
			Password:   c.Config.Redis.Password,
			DB:         c.Config.Redis.DB,
			MaxRetries: c.Config.Redis.MaxRetries,
			PoolSize:   c.Config.Redis.PoolSize,
		}, ttl, c.ZapLog.Named("cache"))
	}

	if rc, ok := c.PayloadCache.(*cache.RedisCache); ok {
		c.RedisClient = rc.Client()
	}
	c.CacheInvalidator = cache.NewCacheInvalidator(c.PayloadCache, c.ZapLog.Named("cache"))

	c.ZapLog.Info("Payload cache initialized", zap.String("backend", c.PayloadCache.Backend()))
}

// initializeRegistry registers a cached remote fetcher for every configured
// basket that the catalog knows about.
func (c *Container) initializeRegistry() {
	c.Registry = orchestrator.NewRegistry()
	ttl := config.Duration(c.Config.Cache.TTL)

	ids := make([]string, 0, len(c.Config.Remote.Baskets))
	for id := range c.Config.Remote.Baskets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if _, err := c.Catalog.Get(id); err != nil {
			c.ZapLog.Warn("Skipping remote basket missing from catalog", zap.String("basket", id))
			continue
		}
		path := c.Config.Remote.Baskets[id]
		if path == "" {
			path = id
		}

		fetcher := cache.NewCachedFetcher(id,
			remote.NewBasketFetcher(c.RemoteClient, path),
			c.PayloadCache, ttl, c.ZapLog.Named("cache"))
		c.Registry.Register(id, fetcher)
		c.refreshers = append(c.refreshers, fetcher)
	}

	c.ZapLog.Info("Remote basket registry initialized", zap.Strings("baskets", c.Registry.Identities()))
}

func (c *Container) initializeRateLimiter() {
	limitCfg := ratelimit.Config{
		Limit:  int64(c.Config.Server.RateLimitPerMin),
		Window: time.Minute,
	}
	if c.RedisClient != nil {
		c.RateLimiter = ratelimit.NewDistributedLimiter(c.RedisClient, limitCfg, c.ZapLog.Named("ratelimit"))
		return
	}
	c.RateLimiter = ratelimit.NewLocalLimiter(limitCfg)
}

func (c *Container) initializeHealthChecks() {
	c.HealthChecker = health.NewHealthChecker(10 * time.Second)

	if c.RedisClient != nil {
		c.HealthChecker.Register(health.NewRedisChecker(c.RedisClient, 2*time.Second))
	}
	if len(c.Registry.Identities()) > 0 {
		c.HealthChecker.RegisterOptional(health.NewRemoteAPIChecker("basket_api", c.RemoteClient, 5*time.Second))
		c.HealthChecker.RegisterOptional(health.NewCircuitBreakerChecker("basket_api_breaker", c.RemoteClient.GetMetrics))
	}
	c.HealthChecker.RegisterOptional(health.NewWorkerChecker("cache_warmer", func() bool {
		return c.CacheWarmer.GetStatus().Running
	}))
}

// Close releases external connections
func (c *Container) Close() error {
	if rc, ok := c.PayloadCache.(*cache.RedisCache); ok {
		return rc.Close()
	}
	return nil
}
