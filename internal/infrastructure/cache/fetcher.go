package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/basket-service/basket_service/internal/domain/entities"
	"github.com/basket-service/basket_service/internal/domain/services/orchestrator"
	"github.com/basket-service/basket_service/pkg/metrics"
)

// CachedFetcher is a read-through cache in front of a remote fetcher.
// Cache failures degrade to a direct fetch and are never returned.
type CachedFetcher struct {
	identity string
	next     orchestrator.Fetcher
	cache    PayloadCache
	ttl      time.Duration
	logger   *zap.Logger
}

func NewCachedFetcher(identity string, next orchestrator.Fetcher, cache PayloadCache, ttl time.Duration, logger *zap.Logger) *CachedFetcher {
	return &CachedFetcher{
		identity: identity,
		next:     next,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
	}
}

func (f *CachedFetcher) FetchFor(ctx context.Context, horizon entities.Horizon) (*entities.RemoteBasketPayload, error) {
	key := Key(f.identity, horizon)

	raw, ok, err := f.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.RecordCacheRequest(f.cache.Backend(), "error")
		f.logger.Warn("Payload cache read failed", zap.String("key", key), zap.Error(err))
	case ok:
		var payload entities.RemoteBasketPayload
		if err := json.Unmarshal(raw, &payload); err == nil {
			metrics.RecordCacheRequest(f.cache.Backend(), "hit")
			return &payload, nil
		}
		metrics.RecordCacheRequest(f.cache.Backend(), "error")
		f.logger.Warn("Discarding undecodable cache entry", zap.String("key", key))
	default:
		metrics.RecordCacheRequest(f.cache.Backend(), "miss")
	}

	return f.Refresh(ctx, horizon)
}

// Refresh fetches from the remote source and overwrites the cache entry
func (f *CachedFetcher) Refresh(ctx context.Context, horizon entities.Horizon) (*entities.RemoteBasketPayload, error) {
	payload, err := f.next.FetchFor(ctx, horizon)
	if err != nil {
		return nil, err
	}

	key := Key(f.identity, horizon)
	raw, err := json.Marshal(payload)
	if err != nil {
		f.logger.Warn("Failed to encode payload for cache", zap.String("key", key), zap.Error(err))
		return payload, nil
	}
	if err := f.cache.Set(ctx, key, raw, f.ttl); err != nil {
		f.logger.Warn("Payload cache write failed", zap.String("key", key), zap.Error(err))
	}
	return payload, nil
}

func (f *CachedFetcher) Identity() string {
	return f.identity
}
