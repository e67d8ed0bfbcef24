// Package reconcile merges remote basket metrics with the local fallback
// basket and derives aggregate figures from a fund list.
package reconcile

import (
	"github.com/basket-service/basket_service/internal/domain/entities"
)

// Source names where a reconciled value came from
type Source string

const (
	SourceRemote  Source = "remote"
	SourceLocal   Source = "local"
	SourceDefault Source = "default"
)

// accessor yields a candidate value for a field, or nil when the source
// does not define it.
type accessor struct {
	source Source
	get    func(local entities.Basket, remote *entities.RemoteMetrics) *float64
}

// fieldRule is one row of the precedence table: candidates are tried left to
// right and the first defined value is assigned.
type fieldRule struct {
	name       string
	candidates []accessor
	assign     func(m *entities.ReconciledMetrics, v float64)
}

func remote(get func(r *entities.RemoteMetrics) *float64) accessor {
	return accessor{source: SourceRemote, get: func(_ entities.Basket, r *entities.RemoteMetrics) *float64 {
		if r == nil {
			return nil
		}
		return get(r)
	}}
}

func local(get func(b entities.Basket) float64) accessor {
	return accessor{source: SourceLocal, get: func(b entities.Basket, _ *entities.RemoteMetrics) *float64 {
		v := get(b)
		return &v
	}}
}

var rules = []fieldRule{
	{
		name: "cagr1Y",
		candidates: []accessor{
			remote(func(r *entities.RemoteMetrics) *float64 { return r.CAGR1Y }),
			local(func(b entities.Basket) float64 { return b.CAGR1Y }),
		},
		assign: func(m *entities.ReconciledMetrics, v float64) { m.CAGR1Y = v },
	},
	{
		name: "cagr3Y",
		candidates: []accessor{
			remote(func(r *entities.RemoteMetrics) *float64 { return r.CAGR3Y }),
			local(func(b entities.Basket) float64 { return b.CAGR3Y }),
		},
		assign: func(m *entities.ReconciledMetrics, v float64) { m.CAGR3Y = v },
	},
	{
		name: "cagr5Y",
		candidates: []accessor{
			remote(func(r *entities.RemoteMetrics) *float64 { return r.CAGR5Y }),
			local(func(b entities.Basket) float64 { return b.CAGR5Y }),
		},
		assign: func(m *entities.ReconciledMetrics, v float64) { m.CAGR5Y = v },
	},
	{
		name: "riskPercentage",
		candidates: []accessor{
			remote(func(r *entities.RemoteMetrics) *float64 { return r.RiskPercentage }),
			remote(func(r *entities.RemoteMetrics) *float64 { return r.Risk }),
			local(func(b entities.Basket) float64 { return b.RiskPercentage }),
		},
		assign: func(m *entities.ReconciledMetrics, v float64) { m.RiskPercentage = v },
	},
	{
		name: "sharpe",
		candidates: []accessor{
			remote(func(r *entities.RemoteMetrics) *float64 { return r.Sharpe }),
			remote(func(r *entities.RemoteMetrics) *float64 { return r.SharpeRatio }),
			local(func(b entities.Basket) float64 { return b.SharpeRatio }),
		},
		assign: func(m *entities.ReconciledMetrics, v float64) { m.Sharpe = v },
	},
}

// Fields lists the reconciled field names in precedence-table order
func Fields() []string {
	names := make([]string, len(rules))
	for i, rule := range rules {
		names[i] = rule.name
	}
	return names
}

// Reconcile resolves every displayed metric from the remote payload first,
// then the local basket, then zero. A remote zero is a defined value.
func Reconcile(basket entities.Basket, payload *entities.RemoteBasketPayload) entities.ReconciledMetrics {
	out, _ := ReconcileWithSources(basket, payload)
	return out
}

// ReconcileWithSources is Reconcile plus the source that won each field,
// keyed by field name.
func ReconcileWithSources(basket entities.Basket, payload *entities.RemoteBasketPayload) (entities.ReconciledMetrics, map[string]Source) {
	var metrics *entities.RemoteMetrics
	if payload != nil {
		metrics = payload.Metrics
	}

	var out entities.ReconciledMetrics
	sources := make(map[string]Source, len(rules))
	for _, rule := range rules {
		v, src := firstDefined(basket, metrics, rule.candidates)
		rule.assign(&out, v)
		sources[rule.name] = src
	}
	return out, sources
}

func firstDefined(basket entities.Basket, metrics *entities.RemoteMetrics, candidates []accessor) (float64, Source) {
	for _, candidate := range candidates {
		if v := candidate.get(basket, metrics); v != nil {
			return *v, candidate.source
		}
	}
	return 0, SourceDefault
}

// Funds returns the remote fund list when it is non-empty, else the local
// list. The two lists are never merged.
func Funds(basket entities.Basket, payload *entities.RemoteBasketPayload) []entities.Fund {
	funds, _ := FundsWithSource(basket, payload)
	return funds
}

func FundsWithSource(basket entities.Basket, payload *entities.RemoteBasketPayload) ([]entities.Fund, Source) {
	if payload != nil && len(payload.Funds) > 0 {
		return payload.Funds, SourceRemote
	}
	return basket.Funds, SourceLocal
}

// MinInvestment prefers a remote minimum when one is sent
func MinInvestment(basket entities.Basket, payload *entities.RemoteBasketPayload) float64 {
	if payload != nil && payload.MinInvestment != nil {
		return *payload.MinInvestment
	}
	return basket.MinInvestment
}
