package reconcile

import (
	"github.com/basket-service/basket_service/internal/domain/entities"
)

// Weighted holds allocation-weighted averages over a fund list
type Weighted struct {
	CAGR1Y       float64 `json:"cagr1Y"`
	CAGR3Y       float64 `json:"cagr3Y"`
	CAGR5Y       float64 `json:"cagr5Y"`
	Risk         float64 `json:"risk"`
	Sharpe       float64 `json:"sharpeRatio"`
	ExpenseRatio float64 `json:"expenseRatio"`
}

// WeightedMetrics averages fund figures by allocation. Funds without a
// positive 5Y return have no 5Y track record and are left out of that
// average only. An empty or zero-allocation list yields zeros.
func WeightedMetrics(funds []entities.Fund) Weighted {
	var total float64
	for _, f := range funds {
		total += f.Allocation
	}
	if total == 0 {
		return Weighted{}
	}

	var w Weighted
	var total5Y, sum5Y float64
	for _, f := range funds {
		w.CAGR1Y += f.InceptionRet * f.Allocation
		w.CAGR3Y += f.Ret3Y * f.Allocation
		w.Risk += f.StdDev * f.Allocation
		w.Sharpe += f.Sharpe * f.Allocation
		w.ExpenseRatio += f.ExpenseRatio * f.Allocation

		if f.Ret5Y > 0 {
			total5Y += f.Allocation
			sum5Y += f.Ret5Y * f.Allocation
		}
	}

	w.CAGR1Y /= total
	w.CAGR3Y /= total
	w.Risk /= total
	w.Sharpe /= total
	w.ExpenseRatio /= total
	if total5Y > 0 {
		w.CAGR5Y = sum5Y / total5Y
	}
	return w
}

// RemoteMetrics expresses the weighted figures in the remote wire shape
func (w Weighted) RemoteMetrics() *entities.RemoteMetrics {
	return &entities.RemoteMetrics{
		CAGR1Y:       ptr(w.CAGR1Y),
		CAGR3Y:       ptr(w.CAGR3Y),
		CAGR5Y:       ptr(w.CAGR5Y),
		Risk:         ptr(w.Risk),
		SharpeRatio:  ptr(w.Sharpe),
		ExpenseRatio: ptr(w.ExpenseRatio),
	}
}

// WeightedExpenseRatio is the portfolio expense ratio, sum(er * alloc / 100)
func WeightedExpenseRatio(funds []entities.Fund) float64 {
	var er float64
	for _, f := range funds {
		er += f.ExpenseRatio * f.Allocation / 100
	}
	return er
}

// AllocationByCategory totals allocations per category. Allocations are
// summed as given and not renormalized.
func AllocationByCategory(funds []entities.Fund) entities.AllocationSummary {
	var s entities.AllocationSummary
	for _, f := range funds {
		switch f.Category {
		case entities.FundCategoryEquity:
			s.Equity += f.Allocation
		case entities.FundCategoryDebt:
			s.Debt += f.Allocation
		case entities.FundCategoryHybrid:
			s.Hybrid += f.Allocation
		default:
			s.Other += f.Allocation
		}
	}
	s.ExpenseRatio = WeightedExpenseRatio(funds)
	return s
}

func ptr(v float64) *float64 {
	return &v
}
