// Package projection computes compound-growth projections for lumpsum and
// systematic investments and builds the basket-vs-benchmark comparison
// table and chart series.
package projection

import (
	"errors"
	"math"

	"github.com/basket-service/basket_service/internal/domain/entities"
)

var (
	// ErrInvalidHorizon is returned when a horizon is not 3, 5 or 10 years
	ErrInvalidHorizon = entities.ErrInvalidHorizon

	// ErrInvalidAmount is returned for negative or non-finite amounts
	ErrInvalidAmount = errors.New("amount must be a non-negative number")

	// ErrInvalidPlan is returned when a calculator plan fails validation
	ErrInvalidPlan = errors.New("invalid calculator plan")
)

// FutureValueLumpsum returns principal * (1 + rate/100)^years.
// years = 0 returns principal unchanged; negative rates model depreciation.
func FutureValueLumpsum(principal, annualRatePercent, years float64) float64 {
	return principal * math.Pow(1+annualRatePercent/100, years)
}

// FutureValueSIP returns the annuity-due future value of months monthly
// contributions compounded at annualRatePercent/12 per month. A zero rate
// degrades to the plain sum; months <= 0 yields 0.
func FutureValueSIP(monthlyAmount, annualRatePercent float64, months int) float64 {
	if months <= 0 {
		return 0
	}

	r := annualRatePercent / 12 / 100
	if r == 0 {
		return monthlyAmount * float64(months)
	}

	growth := math.Pow(1+r, float64(months))
	return monthlyAmount * (growth - 1) / r * (1 + r)
}

func validAmount(amount float64) bool {
	return amount >= 0 && !math.IsInf(amount, 0) && !math.IsNaN(amount)
}
