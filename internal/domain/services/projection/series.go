package projection

import (
	"fmt"

	"github.com/basket-service/basket_service/internal/domain/entities"
)

// Benchmarks holds the benchmark-index CAGR per horizon and the haircut
// applied to the basket 5Y CAGR to estimate a 10-year rate.
type Benchmarks struct {
	Rate3Y         float64
	Rate5Y         float64
	Rate10Y        float64
	TenYearHaircut float64
}

// DefaultBenchmarks returns the historical Nifty CAGR figures used by the
// comparison screen.
func DefaultBenchmarks() Benchmarks {
	return Benchmarks{
		Rate3Y:         11.5,
		Rate5Y:         12.2,
		Rate10Y:        13.5,
		TenYearHaircut: 0.95,
	}
}

// Rates pairs the basket and benchmark annual rates for one horizon
type Rates struct {
	Horizon   entities.Horizon `json:"horizon"`
	Basket    float64          `json:"basketRate"`
	Benchmark float64          `json:"benchmarkRate"`
}

// Builder produces projection tables and chart series
type Builder struct {
	benchmarks Benchmarks
}

// NewBuilder creates a Builder. A zero haircut falls back to the default.
func NewBuilder(benchmarks Benchmarks) *Builder {
	if benchmarks.TenYearHaircut == 0 {
		benchmarks.TenYearHaircut = DefaultBenchmarks().TenYearHaircut
	}
	return &Builder{benchmarks: benchmarks}
}

// Benchmarks returns the configured benchmark rates
func (b *Builder) Benchmarks() Benchmarks {
	return b.benchmarks
}

// RatesFor selects the basket and benchmark rates for a horizon. The 10-year
// basket rate is not observed; it is the 5Y CAGR scaled by the haircut.
func (b *Builder) RatesFor(metrics entities.ReconciledMetrics, horizon entities.Horizon) (Rates, error) {
	switch horizon {
	case entities.Horizon3Y:
		return Rates{Horizon: horizon, Basket: metrics.CAGR3Y, Benchmark: b.benchmarks.Rate3Y}, nil
	case entities.Horizon5Y:
		return Rates{Horizon: horizon, Basket: metrics.CAGR5Y, Benchmark: b.benchmarks.Rate5Y}, nil
	case entities.Horizon10Y:
		return Rates{
			Horizon:   horizon,
			Basket:    metrics.CAGR5Y * b.benchmarks.TenYearHaircut,
			Benchmark: b.benchmarks.Rate10Y,
		}, nil
	default:
		return Rates{}, fmt.Errorf("%w: got %d", ErrInvalidHorizon, int(horizon))
	}
}

// Table returns one row per year 1..horizon. Each row compounds the full
// amount from year zero, so rows are independent of each other.
func (b *Builder) Table(rates Rates, amount float64) ([]entities.ProjectionRow, error) {
	if err := checkInputs(rates.Horizon, amount); err != nil {
		return nil, err
	}

	years := int(rates.Horizon)
	rows := make([]entities.ProjectionRow, 0, years)
	for year := 1; year <= years; year++ {
		rows = append(rows, entities.ProjectionRow{
			Year:           year,
			BasketValue:    FutureValueLumpsum(amount, rates.Basket, float64(year)),
			BenchmarkValue: FutureValueLumpsum(amount, rates.Benchmark, float64(year)),
		})
	}
	return rows, nil
}

// Chart returns the table series prefixed with the investment date, so it
// has horizon+1 points starting at amount.
func (b *Builder) Chart(rates Rates, amount float64) ([]entities.GraphPoint, error) {
	if err := checkInputs(rates.Horizon, amount); err != nil {
		return nil, err
	}

	years := int(rates.Horizon)
	points := make([]entities.GraphPoint, 0, years+1)
	for year := 0; year <= years; year++ {
		points = append(points, entities.GraphPoint{
			Label:          ChartLabel(year),
			BasketValue:    FutureValueLumpsum(amount, rates.Basket, float64(year)),
			BenchmarkValue: FutureValueLumpsum(amount, rates.Benchmark, float64(year)),
		})
	}
	return points, nil
}

// ChartLabel names a chart year; year 0 is the starting point.
func ChartLabel(year int) string {
	if year == 0 {
		return "Today"
	}
	return fmt.Sprintf("Year %d", year)
}

// Summarize reports the last row of a table and the basket's outperformance
func Summarize(rows []entities.ProjectionRow) entities.ProjectionSummary {
	if len(rows) == 0 {
		return entities.ProjectionSummary{}
	}
	last := rows[len(rows)-1]
	return entities.ProjectionSummary{
		FinalBasketValue:    last.BasketValue,
		FinalBenchmarkValue: last.BenchmarkValue,
		Outperformance:      last.BasketValue - last.BenchmarkValue,
	}
}

func checkInputs(horizon entities.Horizon, amount float64) error {
	if !horizon.Valid() {
		return fmt.Errorf("%w: got %d", ErrInvalidHorizon, int(horizon))
	}
	if !validAmount(amount) {
		return fmt.Errorf("%w: got %v", ErrInvalidAmount, amount)
	}
	return nil
}
