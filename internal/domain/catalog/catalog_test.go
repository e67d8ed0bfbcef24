package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basket-service/basket_service/internal/domain/entities"
	"github.com/basket-service/basket_service/internal/domain/services/reconcile"
)

func TestDefault(t *testing.T) {
	c := Default()

	list := c.List()
	require.NotEmpty(t, list)
	assert.Equal(t, "conservative-balanced", list[0].ID)

	for _, b := range list {
		assert.NotEmpty(t, b.Funds, b.ID)
		assert.NotZero(t, b.CAGR5Y, b.ID)
	}
}

func TestDefault_DerivesMetricsFromFunds(t *testing.T) {
	b, err := Default().Get("conservative-balanced")
	require.NoError(t, err)

	w := reconcile.WeightedMetrics(b.Funds)
	assert.InDelta(t, w.CAGR1Y, b.CAGR1Y, 1e-9)
	assert.InDelta(t, w.CAGR3Y, b.CAGR3Y, 1e-9)
	assert.InDelta(t, w.CAGR5Y, b.CAGR5Y, 1e-9)
	assert.InDelta(t, w.Sharpe, b.SharpeRatio, 1e-9)
	assert.InDelta(t, w.Risk, b.RiskPercentage, 1e-9)
}

func TestDefault_KeepsExplicitMetrics(t *testing.T) {
	b, err := Default().Get("child-education")
	require.NoError(t, err)
	assert.Equal(t, 15.0, b.CAGR3Y)
	assert.Equal(t, 18.0, b.CAGR5Y)
}

func TestGet(t *testing.T) {
	c := Default()

	_, err := c.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownBasket)

	b, err := c.Get("great-india")
	require.NoError(t, err)
	b.Funds[0].Allocation = 99

	again, err := c.Get("great-india")
	require.NoError(t, err)
	assert.NotEqual(t, 99.0, again.Funds[0].Allocation, "callers must not mutate catalog entries")
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		baskets []entities.Basket
	}{
		{"missing id", []entities.Basket{{Name: "No ID"}}},
		{"allocation over 100", []entities.Basket{{ID: "x", Name: "X", Funds: []entities.Fund{{Name: "F", Allocation: 120}}}}},
		{"negative minimum", []entities.Basket{{ID: "x", Name: "X", MinInvestment: -1}}},
		{"duplicate", []entities.Basket{{ID: "x", Name: "X"}, {ID: "x", Name: "Y"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.baskets)
			assert.Error(t, err)
		})
	}
}

func TestIDs(t *testing.T) {
	c, err := New([]entities.Basket{{ID: "b", Name: "B"}, {ID: "a", Name: "A"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, c.IDs())
	assert.Equal(t, "b", c.List()[0].ID)
}
