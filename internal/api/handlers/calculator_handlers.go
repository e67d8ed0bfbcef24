package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/basket-service/basket_service/internal/domain/services/basket"
	"github.com/basket-service/basket_service/internal/domain/services/projection"
)

// SIPRequest is the body of POST /api/v1/calculators/sip
type SIPRequest struct {
	Amount         float64 `json:"amount" binding:"gte=0"`
	AnnualRate     float64 `json:"annualRate" binding:"gt=-100,lte=100"`
	Years          int     `json:"years" binding:"gte=1,lte=60"`
	PeriodsPerYear int     `json:"periodsPerYear" binding:"omitempty,oneof=1 2 4 12"`
	StepUp         string  `json:"stepUp" binding:"omitempty,oneof=none amount percent"`
	StepUpAmount   float64 `json:"stepUpAmount" binding:"gte=0"`
	StepUpPercent  float64 `json:"stepUpPercent" binding:"gte=0,lte=100"`
}

// LumpsumRequest is the body of POST /api/v1/calculators/lumpsum
type LumpsumRequest struct {
	Principal  float64 `json:"principal" binding:"gte=0"`
	AnnualRate float64 `json:"annualRate" binding:"gt=-100,lte=100"`
	Years      int     `json:"years" binding:"gte=1,lte=60"`
}

// ScheduleResponse adds display strings to a ledger result
type ScheduleResponse struct {
	projection.ScheduleResult
	CorpusDisplay   string `json:"corpusDisplay"`
	InvestedDisplay string `json:"investedDisplay"`
}

// GoalResponse adds display strings to a goal plan
type GoalResponse struct {
	projection.GoalResult
	FutureCostDisplay string `json:"futureCostDisplay"`
	MonthlySIPDisplay string `json:"monthlySipDisplay"`
}

// CalculatorHandlers serves the standalone SIP, lumpsum and goal calculators
type CalculatorHandlers struct {
	logger *zap.Logger
}

// NewCalculatorHandlers creates calculator handlers
func NewCalculatorHandlers(logger *zap.Logger) *CalculatorHandlers {
	return &CalculatorHandlers{logger: logger}
}

// SIP handles POST /api/v1/calculators/sip
func (h *CalculatorHandlers) SIP(c *gin.Context) {
	var req SIPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", map[string]interface{}{"error": err.Error()})
		return
	}

	result, err := projection.SIPSchedule(projection.SIPPlan{
		Amount:         req.Amount,
		PeriodsPerYear: req.PeriodsPerYear,
		AnnualRate:     req.AnnualRate,
		Years:          req.Years,
		StepUp:         projection.StepUpKind(req.StepUp),
		StepUpAmount:   req.StepUpAmount,
		StepUpPercent:  req.StepUpPercent,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newScheduleResponse(result))
}

// Lumpsum handles POST /api/v1/calculators/lumpsum
func (h *CalculatorHandlers) Lumpsum(c *gin.Context) {
	var req LumpsumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", map[string]interface{}{"error": err.Error()})
		return
	}

	result, err := projection.LumpsumSchedule(req.Principal, req.AnnualRate, req.Years)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newScheduleResponse(result))
}

// Goal handles POST /api/v1/calculators/goal
func (h *CalculatorHandlers) Goal(c *gin.Context) {
	var plan projection.GoalPlan
	if err := c.ShouldBindJSON(&plan); err != nil {
		respondBadRequest(c, "Invalid request body", map[string]interface{}{"error": err.Error()})
		return
	}

	result, err := projection.PlanGoal(plan)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, GoalResponse{
		GoalResult:        result,
		FutureCostDisplay: basket.FormatINR(result.FutureCost),
		MonthlySIPDisplay: basket.FormatINR(result.RequiredMonthlySIP),
	})
}

func newScheduleResponse(result projection.ScheduleResult) ScheduleResponse {
	return ScheduleResponse{
		ScheduleResult:  result,
		CorpusDisplay:   basket.FormatINR(result.Corpus),
		InvestedDisplay: basket.FormatINR(result.TotalInvested),
	}
}
