// Package catalog holds the built-in basket definitions used whenever a
// remote payload is missing or incomplete.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/basket-service/basket_service/internal/domain/entities"
	"github.com/basket-service/basket_service/internal/domain/services/reconcile"
)

// ErrUnknownBasket is returned for identities not in the catalog
var ErrUnknownBasket = errors.New("basket not found")

// Catalog is an immutable set of baskets keyed by identity
type Catalog struct {
	baskets map[string]entities.Basket
	order   []string
}

// New validates baskets and indexes them. Baskets that carry no headline
// metrics get them from their allocation-weighted fund figures.
func New(baskets []entities.Basket) (*Catalog, error) {
	validate := validator.New()

	c := &Catalog{baskets: make(map[string]entities.Basket, len(baskets))}
	for _, b := range baskets {
		if err := validate.Struct(b); err != nil {
			return nil, fmt.Errorf("invalid basket %q: %w", b.ID, err)
		}
		if _, dup := c.baskets[b.ID]; dup {
			return nil, fmt.Errorf("duplicate basket id %q", b.ID)
		}
		c.baskets[b.ID] = withDerivedMetrics(b)
		c.order = append(c.order, b.ID)
	}
	return c, nil
}

// Default returns the built-in catalog
func Default() *Catalog {
	c, err := New(builtin())
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns a copy of the basket with the given identity
func (c *Catalog) Get(id string) (entities.Basket, error) {
	b, ok := c.baskets[id]
	if !ok {
		return entities.Basket{}, fmt.Errorf("%w: %s", ErrUnknownBasket, id)
	}
	return clone(b), nil
}

// List returns all baskets in definition order
func (c *Catalog) List() []entities.Basket {
	out := make([]entities.Basket, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, clone(c.baskets[id]))
	}
	return out
}

// IDs returns the basket identities sorted alphabetically
func (c *Catalog) IDs() []string {
	ids := append([]string(nil), c.order...)
	sort.Strings(ids)
	return ids
}

func withDerivedMetrics(b entities.Basket) entities.Basket {
	if b.CAGR3Y != 0 || b.CAGR5Y != 0 || len(b.Funds) == 0 {
		return b
	}
	derived := &entities.RemoteBasketPayload{Metrics: reconcile.WeightedMetrics(b.Funds).RemoteMetrics()}
	m := reconcile.Reconcile(b, derived)
	b.CAGR1Y = m.CAGR1Y
	b.CAGR3Y = m.CAGR3Y
	b.CAGR5Y = m.CAGR5Y
	b.RiskPercentage = m.RiskPercentage
	b.SharpeRatio = m.Sharpe
	return b
}

// clone copies the slices so callers cannot mutate catalog entries
func clone(b entities.Basket) entities.Basket {
	b.Goals = append([]string(nil), b.Goals...)
	b.Funds = append([]entities.Fund(nil), b.Funds...)
	return b
}
