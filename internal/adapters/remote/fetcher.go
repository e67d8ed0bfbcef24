package remote

import (
	"context"

	"github.com/basket-service/basket_service/internal/domain/entities"
)

// BasketFetcher binds a client to one basket's remote path
type BasketFetcher struct {
	client *Client
	path   string
}

// NewBasketFetcher creates a fetcher for path
func NewBasketFetcher(client *Client, path string) *BasketFetcher {
	return &BasketFetcher{client: client, path: path}
}

// FetchFor loads the basket payload for horizon
func (f *BasketFetcher) FetchFor(ctx context.Context, horizon entities.Horizon) (*entities.RemoteBasketPayload, error) {
	return f.client.FetchBasket(ctx, f.path, horizon)
}

// Path returns the remote path segment
func (f *BasketFetcher) Path() string {
	return f.path
}
