package cache

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type CacheInvalidator struct {
	cache  PayloadCache
	logger *zap.Logger
}

func NewCacheInvalidator(cache PayloadCache, logger *zap.Logger) *CacheInvalidator {
	return &CacheInvalidator{cache: cache, logger: logger}
}

// InvalidateBasket drops every cached horizon of a basket
func (ci *CacheInvalidator) InvalidateBasket(ctx context.Context, identity string) (int, error) {
	removed, err := ci.cache.DeletePrefix(ctx, BasketPrefix(identity))
	if err != nil {
		return 0, fmt.Errorf("failed to invalidate basket %s: %w", identity, err)
	}

	ci.logger.Info("Invalidated basket cache",
		zap.String("basket", identity),
		zap.Int("keys", removed))
	return removed, nil
}

// InvalidateAll drops every cached basket payload
func (ci *CacheInvalidator) InvalidateAll(ctx context.Context) (int, error) {
	removed, err := ci.cache.DeletePrefix(ctx, "basket:")
	if err != nil {
		return 0, fmt.Errorf("failed to invalidate basket cache: %w", err)
	}
	ci.logger.Info("Invalidated all basket caches", zap.Int("keys", removed))
	return removed, nil
}
