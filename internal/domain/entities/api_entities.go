package entities

// === API Response Models ===

// ErrorResponse represents an error response
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SeriesSource tells whether a chart came from the remote API or was computed
type SeriesSource string

const (
	SeriesSourceRemote      SeriesSource = "remote"
	SeriesSourceSynthesized SeriesSource = "synthesized"
)

// ProjectionRates are the annual rates a projection was built with
type ProjectionRates struct {
	Basket    float64 `json:"basketRate"`
	Benchmark float64 `json:"benchmarkRate"`
}

// BasketView is everything a host needs to render one basket at one
// horizon and amount.
type BasketView struct {
	Basket        Basket            `json:"basket"`
	Horizon       Horizon           `json:"horizon"`
	Amount        float64           `json:"amount"`
	Metrics       ReconciledMetrics `json:"metrics"`
	Funds         []Fund            `json:"funds"`
	Allocation    AllocationSummary `json:"allocation"`
	PeriodReturns PeriodReturns     `json:"periodReturns,omitempty"`

	Series       []GraphPoint `json:"series"`
	SeriesSource SeriesSource `json:"seriesSource"`
	SeriesModes  []SeriesMode `json:"seriesModes,omitempty"`
	SelectedMode SeriesMode   `json:"selectedMode,omitempty"`

	Rates      ProjectionRates   `json:"rates"`
	Projection []ProjectionRow   `json:"projection"`
	Summary    ProjectionSummary `json:"summary"`

	MinInvestment          float64 `json:"minInvestment"`
	BelowMinimum           bool    `json:"belowMinimum"`
	BelowComparisonMinimum bool    `json:"belowComparisonMinimum"`

	RemoteBacked bool   `json:"remoteBacked"`
	Status       string `json:"status"`
	Loading      bool   `json:"loading"`
	Error        string `json:"error,omitempty"`
	Token        uint64 `json:"token,omitempty"`
}

// BasketListItem is one row of the basket listing
type BasketListItem struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	RiskLevel     RiskLevel `json:"riskLevel"`
	MinInvestment float64   `json:"minInvestment"`
	CAGR3Y        float64   `json:"cagr3Y"`
	CAGR5Y        float64   `json:"cagr5Y"`
	FundCount     int       `json:"fundCount"`
	RemoteBacked  bool      `json:"remoteBacked"`
}

// Comparison lines several baskets up at the same horizon and amount
type Comparison struct {
	Horizon       Horizon      `json:"horizon"`
	Amount        float64      `json:"amount"`
	BenchmarkRate float64      `json:"benchmarkRate"`
	Baskets       []BasketView `json:"baskets"`
	BestBasketID  string       `json:"bestBasketId,omitempty"`
}

// SelectResponse acknowledges a session selection
type SelectResponse struct {
	SessionID string  `json:"sessionId"`
	BasketID  string  `json:"basketId"`
	Horizon   Horizon `json:"horizon"`
	Token     uint64  `json:"token"`
	Status    string  `json:"status"`
}

// SessionResponse carries a newly created session ID
type SessionResponse struct {
	SessionID string `json:"sessionId"`
}
