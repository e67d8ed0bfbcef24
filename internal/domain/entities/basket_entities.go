package entities

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidHorizon is returned when a horizon is not 3, 5 or 10 years
var ErrInvalidHorizon = errors.New("horizon must be one of 3, 5 or 10 years")

// RiskLevel represents basket risk levels
type RiskLevel string

const (
	RiskLevelLow          RiskLevel = "Low"
	RiskLevelModerate     RiskLevel = "Moderate"
	RiskLevelModerateHigh RiskLevel = "Moderate-High"
	RiskLevelHigh         RiskLevel = "High"
)

// FundCategory groups funds for the allocation breakdown
type FundCategory string

const (
	FundCategoryEquity FundCategory = "Equity"
	FundCategoryDebt   FundCategory = "Debt"
	FundCategoryHybrid FundCategory = "Hybrid"
)

// Horizon is the comparison window in whole years
type Horizon int

const (
	Horizon3Y  Horizon = 3
	Horizon5Y  Horizon = 5
	Horizon10Y Horizon = 10
)

// SupportedHorizons lists the horizons offered by the timeline selector
var SupportedHorizons = []Horizon{Horizon3Y, Horizon5Y, Horizon10Y}

// Valid reports whether h is one of the supported horizons
func (h Horizon) Valid() bool {
	switch h {
	case Horizon3Y, Horizon5Y, Horizon10Y:
		return true
	}
	return false
}

func (h Horizon) String() string {
	return strconv.Itoa(int(h)) + "Y"
}

// ParseHorizon converts a years query value into a Horizon
func ParseHorizon(s string) (Horizon, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidHorizon, s)
	}
	h := Horizon(n)
	if !h.Valid() {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidHorizon, n)
	}
	return h, nil
}

// === Core Domain Entities ===

// Basket represents a curated mutual-fund basket as known locally.
// It is read-only reference data.
type Basket struct {
	ID              string    `json:"id" validate:"required"`
	Name            string    `json:"name" validate:"required"`
	Description     string    `json:"description"`
	Color           string    `json:"color,omitempty"`
	RiskLevel       RiskLevel `json:"riskLevel"`
	AgeRange        string    `json:"ageRange,omitempty"`
	TimeHorizon     string    `json:"timeHorizon,omitempty"`
	Goals           []string  `json:"goals,omitempty"`
	ExperienceLevel string    `json:"experienceLevel,omitempty"`
	MinInvestment   float64   `json:"minInvestment" validate:"gte=0"`
	CAGR1Y          float64   `json:"cagr1Y"`
	CAGR3Y          float64   `json:"cagr3Y"`
	CAGR5Y          float64   `json:"cagr5Y"`
	RiskPercentage  float64   `json:"riskPercentage" validate:"gte=0"`
	SharpeRatio     float64   `json:"sharpeRatio"`
	Funds           []Fund    `json:"funds" validate:"dive"`
}

// Fund represents a fund within a basket. Allocation is a percentage and is
// displayed as-is; allocations of a basket need not sum to exactly 100.
type Fund struct {
	ID           string       `json:"id"`
	Name         string       `json:"name" validate:"required"`
	Category     FundCategory `json:"category,omitempty"`
	Allocation   float64      `json:"allocation" validate:"gte=0,lte=100"`
	ExpenseRatio float64      `json:"expenseRatio" validate:"gte=0"`
	RiskTier     string       `json:"riskTier,omitempty"`
	InceptionRet float64      `json:"incpRet,omitempty"`
	StdDev       float64      `json:"std,omitempty"`
	Ret3Y        float64      `json:"ret3Y,omitempty"`
	Ret5Y        float64      `json:"ret5Y,omitempty"`
	Sharpe       float64      `json:"sharpe,omitempty"`
	AUM          float64      `json:"aum,omitempty"`
}

// RemoteMetrics mirrors the metric block of a remote basket payload.
// A nil field means the remote source did not send it.
type RemoteMetrics struct {
	CAGR1Y         *float64 `json:"cagr1Y,omitempty"`
	CAGR3Y         *float64 `json:"cagr3Y,omitempty"`
	CAGR5Y         *float64 `json:"cagr5Y,omitempty"`
	Risk           *float64 `json:"risk,omitempty"`
	RiskPercentage *float64 `json:"riskPercentage,omitempty"`
	Sharpe         *float64 `json:"sharpe,omitempty"`
	SharpeRatio    *float64 `json:"sharpeRatio,omitempty"`
	ExpenseRatio   *float64 `json:"expenseRatio,omitempty"`
}

// PeriodReturns holds trailing returns keyed by period label (1M, 3M, ... 5Y)
type PeriodReturns map[string]float64

// RemoteBasketPayload is the response of a remote basket source for one horizon
type RemoteBasketPayload struct {
	ID            string           `json:"id,omitempty"`
	Name          string           `json:"name,omitempty"`
	MinInvestment *float64         `json:"minInvestment,omitempty"`
	Metrics       *RemoteMetrics   `json:"metrics,omitempty"`
	PeriodReturns PeriodReturns    `json:"periodReturns,omitempty"`
	GraphData     *RemoteGraphData `json:"graphData,omitempty"`
	Funds         []Fund           `json:"funds"`
}

// ReconciledMetrics is the single source of truth for displayed metrics
type ReconciledMetrics struct {
	CAGR1Y         float64 `json:"cagr1Y"`
	CAGR3Y         float64 `json:"cagr3Y"`
	CAGR5Y         float64 `json:"cagr5Y"`
	RiskPercentage float64 `json:"riskPercentage"`
	Sharpe         float64 `json:"sharpe"`
}

// GraphPoint is one point of the canonical chart series
type GraphPoint struct {
	Label          string  `json:"label"`
	BasketValue    float64 `json:"basketValue"`
	BenchmarkValue float64 `json:"benchmarkValue"`
}

// ProjectionRow is one year of a locally synthesized projection
type ProjectionRow struct {
	Year           int     `json:"year"`
	BasketValue    float64 `json:"basketValue"`
	BenchmarkValue float64 `json:"benchmarkValue"`
}

// ProjectionSummary condenses a projection to its final values
type ProjectionSummary struct {
	FinalBasketValue    float64 `json:"finalBasketValue"`
	FinalBenchmarkValue float64 `json:"finalBenchmarkValue"`
	Outperformance      float64 `json:"outperformance"`
}

// AllocationSummary totals fund allocations per category
type AllocationSummary struct {
	Equity       float64 `json:"equity"`
	Debt         float64 `json:"debt"`
	Hybrid       float64 `json:"hybrid"`
	Other        float64 `json:"other"`
	ExpenseRatio float64 `json:"expenseRatio"`
}
