package orchestrator

import (
	"context"
	"sort"
	"sync"

	"github.com/basket-service/basket_service/internal/domain/entities"
)

// Fetcher loads the remote payload of one basket for a horizon
type Fetcher interface {
	FetchFor(ctx context.Context, horizon entities.Horizon) (*entities.RemoteBasketPayload, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, horizon entities.Horizon) (*entities.RemoteBasketPayload, error)

// FetchFor calls f
func (f FetcherFunc) FetchFor(ctx context.Context, horizon entities.Horizon) (*entities.RemoteBasketPayload, error) {
	return f(ctx, horizon)
}

// Registry maps basket identities to their remote source. Identities that
// are not registered have no remote source.
type Registry struct {
	mu       sync.RWMutex
	fetchers map[string]Fetcher
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{fetchers: make(map[string]Fetcher)}
}

// Register binds a fetcher to an identity, replacing any previous binding
func (r *Registry) Register(identity string, fetcher Fetcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchers[identity] = fetcher
}

// Lookup returns the fetcher for identity
func (r *Registry) Lookup(identity string) (Fetcher, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.fetchers[identity]
	return f, ok
}

// Supports reports whether identity has a remote source
func (r *Registry) Supports(identity string) bool {
	_, ok := r.Lookup(identity)
	return ok
}

// Identities returns the registered identities in sorted order
func (r *Registry) Identities() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.fetchers))
	for id := range r.fetchers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
