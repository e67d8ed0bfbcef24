package projection

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// StepUpKind selects how a SIP contribution grows each year
type StepUpKind string

const (
	StepUpNone    StepUpKind = "none"
	StepUpAmount  StepUpKind = "amount"
	StepUpPercent StepUpKind = "percent"
)

// SIPPlan describes a recurring contribution schedule
type SIPPlan struct {
	Amount         float64    `json:"amount" validate:"gte=0"`
	PeriodsPerYear int        `json:"periodsPerYear" validate:"oneof=1 2 4 12"`
	AnnualRate     float64    `json:"annualRate" validate:"gt=-100,lte=100"`
	Years          int        `json:"years" validate:"gte=0,lte=60"`
	StepUp         StepUpKind `json:"stepUp" validate:"omitempty,oneof=none amount percent"`
	StepUpAmount   float64    `json:"stepUpAmount" validate:"gte=0"`
	StepUpPercent  float64    `json:"stepUpPercent" validate:"gte=0,lte=100"`
}

// YearlyRow is one year of a contribution ledger
type YearlyRow struct {
	Year     int     `json:"year"`
	Invested float64 `json:"invested"`
	Value    float64 `json:"value"`
	Returns  float64 `json:"returns"`
}

// ScheduleResult is the outcome of a SIP or lumpsum ledger
type ScheduleResult struct {
	Corpus        float64     `json:"corpus"`
	TotalInvested float64     `json:"totalInvested"`
	TotalReturns  float64     `json:"totalReturns"`
	Yearly        []YearlyRow `json:"yearly"`
}

// SIPSchedule runs a period-by-period ledger. Each contribution is made at
// the start of its period; the step-up applies after every full year.
func SIPSchedule(plan SIPPlan) (ScheduleResult, error) {
	if plan.PeriodsPerYear == 0 {
		plan.PeriodsPerYear = 12
	}
	if plan.StepUp == "" {
		plan.StepUp = StepUpNone
	}
	if err := validate.Struct(plan); err != nil {
		return ScheduleResult{}, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}

	ratePerPeriod := plan.AnnualRate / 100 / float64(plan.PeriodsPerYear)
	totalPeriods := plan.Years * plan.PeriodsPerYear

	contribution := plan.Amount
	var invested, value float64
	yearly := make([]YearlyRow, 0, plan.Years)

	for period := 1; period <= totalPeriods; period++ {
		value = (value + contribution) * (1 + ratePerPeriod)
		invested += contribution

		if period%plan.PeriodsPerYear != 0 {
			continue
		}
		yearly = append(yearly, YearlyRow{
			Year:     period / plan.PeriodsPerYear,
			Invested: invested,
			Value:    value,
			Returns:  value - invested,
		})

		switch plan.StepUp {
		case StepUpAmount:
			contribution += plan.StepUpAmount
		case StepUpPercent:
			contribution += contribution * plan.StepUpPercent / 100
		}
	}

	return ScheduleResult{
		Corpus:        value,
		TotalInvested: invested,
		TotalReturns:  value - invested,
		Yearly:        yearly,
	}, nil
}

// LumpsumSchedule compounds a one-time investment yearly
func LumpsumSchedule(principal, annualRate float64, years int) (ScheduleResult, error) {
	if !validAmount(principal) {
		return ScheduleResult{}, fmt.Errorf("%w: got %v", ErrInvalidAmount, principal)
	}
	if years < 0 {
		return ScheduleResult{}, fmt.Errorf("%w: years must be non-negative", ErrInvalidPlan)
	}

	value := principal
	yearly := make([]YearlyRow, 0, years)
	for year := 1; year <= years; year++ {
		value *= 1 + annualRate/100
		yearly = append(yearly, YearlyRow{
			Year:     year,
			Invested: principal,
			Value:    value,
			Returns:  value - principal,
		})
	}

	return ScheduleResult{
		Corpus:        value,
		TotalInvested: principal,
		TotalReturns:  value - principal,
		Yearly:        yearly,
	}, nil
}

// GoalPlan describes a future financial goal
type GoalPlan struct {
	Name           string  `json:"name"`
	CurrentCost    float64 `json:"currentCost" validate:"gte=0"`
	Years          int     `json:"years" validate:"gte=0,lte=60"`
	InflationRate  float64 `json:"inflationRate" validate:"gte=0,lte=50"`
	ExpectedReturn float64 `json:"expectedReturn" validate:"gt=-100,lte=100"`
	SIPGrowthRate  float64 `json:"sipGrowthRate" validate:"gte=0,lte=100"`
	LumpsumToday   float64 `json:"lumpsumToday" validate:"gte=0"`
}

// GoalResult reports what a goal costs and the monthly SIP needed to fund it
type GoalResult struct {
	FutureCost         float64 `json:"futureCost"`
	LumpsumFutureValue float64 `json:"lumpsumFutureValue"`
	ShortfallFromSIP   float64 `json:"shortfallFromSip"`
	RequiredMonthlySIP float64 `json:"requiredMonthlySip"`
}

// PlanGoal inflates the goal cost, credits the growth of today's lumpsum and
// solves for the starting monthly SIP (stepped up yearly by SIPGrowthRate)
// that covers the rest. The SIP is rounded up to the next 100.
func PlanGoal(plan GoalPlan) (GoalResult, error) {
	if err := validate.Struct(plan); err != nil {
		return GoalResult{}, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}

	years := float64(plan.Years)
	result := GoalResult{
		FutureCost:         FutureValueLumpsum(plan.CurrentCost, plan.InflationRate, years),
		LumpsumFutureValue: FutureValueLumpsum(plan.LumpsumToday, plan.ExpectedReturn, years),
	}
	result.ShortfallFromSIP = math.Max(0, result.FutureCost-result.LumpsumFutureValue)

	if result.ShortfallFromSIP == 0 || plan.Years == 0 {
		return result, nil
	}

	// Future value is linear in the starting contribution, so a unit SIP
	// gives the exact scale factor.
	unit := steppedSIPValue(1, plan.ExpectedReturn, plan.SIPGrowthRate, plan.Years)
	if unit <= 0 {
		return result, nil
	}
	result.RequiredMonthlySIP = math.Ceil(result.ShortfallFromSIP/unit/100) * 100

	return result, nil
}

// steppedSIPValue is the goal-date value of monthly contributions that start
// at amount and grow by growthPercent after each year.
func steppedSIPValue(amount, annualRate, growthPercent float64, years int) float64 {
	monthlyRate := annualRate / 100 / 12
	totalMonths := years * 12

	var total float64
	contribution := amount
	for year := 1; year <= years; year++ {
		for month := 1; month <= 12; month++ {
			remaining := totalMonths - ((year-1)*12 + month - 1)
			total += contribution * math.Pow(1+monthlyRate, float64(remaining))
		}
		contribution *= 1 + growthPercent/100
	}
	return total
}
