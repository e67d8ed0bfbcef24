// Package cache stores encoded remote basket payloads so repeated views and
// comparisons do not hit the remote API for every request.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/basket-service/basket_service/internal/domain/entities"
)

// PayloadCache is a byte-oriented key/value store with expiry
type PayloadCache interface {
	// Get returns the cached value; ok is false on a miss.
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	// DeletePrefix removes every key starting with prefix and reports how many.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	// Backend names the implementation for metrics and health output.
	Backend() string
}

// Key builds the cache key of a basket payload
func Key(identity string, horizon entities.Horizon) string {
	return fmt.Sprintf("basket:%s:%d", identity, int(horizon))
}

// BasketPrefix is the key prefix shared by all horizons of a basket
func BasketPrefix(identity string) string {
	return fmt.Sprintf("basket:%s:", identity)
}
