package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basket_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "basket_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Projection metrics
	ProjectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basket_projections_total",
			Help: "Total number of projections built",
		},
		[]string{"horizon", "series_source"}, // remote, synthesized
	)

	ProjectionAmount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "basket_projection_amount_inr",
			Help:    "Projected investment amounts in INR",
			Buckets: []float64{1000, 5000, 10000, 50000, 100000, 500000, 1000000, 5000000},
		},
		[]string{"horizon"},
	)

	MalformedGraphsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basket_malformed_graph_payloads_total",
			Help: "Remote graph payloads discarded as malformed",
		},
		[]string{"basket"},
	)

	// Orchestrator metrics
	FetchDispatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basket_fetch_dispatches_total",
			Help: "Total number of remote fetches dispatched",
		},
		[]string{"basket", "horizon"},
	)

	FetchResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basket_fetch_resolutions_total",
			Help: "Remote fetch resolutions by outcome",
		},
		[]string{"basket", "outcome"}, // success, failed, stale_discarded
	)

	// Cache metrics
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basket_cache_requests_total",
			Help: "Payload cache lookups by result",
		},
		[]string{"backend", "result"}, // hit, miss, error
	)

	RedisOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "basket_redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"operation"},
	)

	CacheWarmRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basket_cache_warm_runs_total",
			Help: "Cache warmer runs by status",
		},
		[]string{"status"},
	)

	// External service metrics
	ExternalAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basket_external_api_calls_total",
			Help: "Total number of external API calls",
		},
		[]string{"service", "endpoint", "status_code"},
	)

	ExternalAPICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "basket_external_api_call_duration_seconds",
			Help:    "External API call duration in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
		},
		[]string{"service", "endpoint"},
	)

	CircuitBreakerStateGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "basket_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"service"},
	)

	RateLimitHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basket_rate_limit_hits_total",
			Help: "Total number of rate limit hits",
		},
		[]string{"endpoint"},
	)
)

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, endpoint, statusCode string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordProjection records a built projection
func RecordProjection(horizon, source string, amount float64) {
	ProjectionsTotal.WithLabelValues(horizon, source).Inc()
	if amount > 0 {
		ProjectionAmount.WithLabelValues(horizon).Observe(amount)
	}
}

// RecordMalformedGraph counts a discarded graph payload
func RecordMalformedGraph(basket string) {
	MalformedGraphsTotal.WithLabelValues(basket).Inc()
}

// RecordFetchDispatch counts a dispatched remote fetch
func RecordFetchDispatch(basket, horizon string) {
	FetchDispatchesTotal.WithLabelValues(basket, horizon).Inc()
}

// RecordFetchResolution counts a fetch outcome
func RecordFetchResolution(basket, outcome string) {
	FetchResolutionsTotal.WithLabelValues(basket, outcome).Inc()
}

// RecordCacheRequest records a cache lookup result
func RecordCacheRequest(backend, result string) {
	CacheRequestsTotal.WithLabelValues(backend, result).Inc()
}

// RecordRedisOperation records Redis operation metrics
func RecordRedisOperation(operation string, duration float64) {
	RedisOperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordCacheWarmRun records a cache warmer run
func RecordCacheWarmRun(status string) {
	CacheWarmRunsTotal.WithLabelValues(status).Inc()
}

// RecordExternalAPICall records external API call metrics
func RecordExternalAPICall(service, endpoint, statusCode string, duration float64) {
	ExternalAPICallsTotal.WithLabelValues(service, endpoint, statusCode).Inc()
	ExternalAPICallDuration.WithLabelValues(service, endpoint).Observe(duration)
}

// UpdateCircuitBreakerState updates circuit breaker state
func UpdateCircuitBreakerState(service string, state float64) {
	CircuitBreakerStateGauge.WithLabelValues(service).Set(state)
}

// RecordRateLimitHit records rate limit hit
func RecordRateLimitHit(endpoint string) {
	RateLimitHitsTotal.WithLabelValues(endpoint).Inc()
}
