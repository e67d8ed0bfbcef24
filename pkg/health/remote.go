package health

import (
	"context"
	"time"
)

// Pinger is anything that can verify a dependency answers
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// RemoteAPIChecker checks that the basket analytics API answers
type RemoteAPIChecker struct {
	name    string
	pinger  Pinger
	timeout time.Duration
	slow    time.Duration
}

// NewRemoteAPIChecker creates a remote API health checker
func NewRemoteAPIChecker(name string, pinger Pinger, timeout time.Duration) *RemoteAPIChecker {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &RemoteAPIChecker{name: name, pinger: pinger, timeout: timeout, slow: timeout / 2}
}

// Check performs the remote API health check
func (c *RemoteAPIChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.pinger.HealthCheck(ctx); err != nil {
		return NewUnhealthyResult(c.name, err).WithDuration(time.Since(start))
	}

	duration := time.Since(start)
	if duration > c.slow {
		return NewDegradedResult(c.name, "slow response time").WithDuration(duration)
	}
	return NewHealthyResult(c.name, "api reachable").WithDuration(duration)
}

// Name returns the checker name
func (c *RemoteAPIChecker) Name() string {
	return c.name
}

// CircuitBreakerChecker reports a client's breaker state
type CircuitBreakerChecker struct {
	name    string
	metrics func() map[string]interface{}
}

// NewCircuitBreakerChecker creates a circuit breaker health checker. The
// metrics func must report the state under "circuit_breaker_state".
func NewCircuitBreakerChecker(name string, metrics func() map[string]interface{}) *CircuitBreakerChecker {
	return &CircuitBreakerChecker{name: name, metrics: metrics}
}

// Check performs the circuit breaker health check
func (c *CircuitBreakerChecker) Check(ctx context.Context) CheckResult {
	counts := c.metrics()
	state, _ := counts["circuit_breaker_state"].(string)

	result := CheckResult{
		Component: c.name,
		Timestamp: time.Now(),
		Metadata:  counts,
	}

	switch state {
	case "closed":
		result.Status = StatusHealthy
		result.Message = "circuit closed"
	case "half-open":
		result.Status = StatusDegraded
		result.Message = "circuit half-open"
	case "open":
		result.Status = StatusUnhealthy
		result.Message = "circuit open"
	default:
		result.Status = StatusUnhealthy
		result.Message = "unknown circuit state"
	}
	return result
}

// Name returns the checker name
func (c *CircuitBreakerChecker) Name() string {
	return c.name
}

// WorkerChecker checks background worker health
type WorkerChecker struct {
	name      string
	isRunning func() bool
}

// NewWorkerChecker creates a worker health checker
func NewWorkerChecker(name string, isRunning func() bool) *WorkerChecker {
	return &WorkerChecker{name: name, isRunning: isRunning}
}

// Check performs the worker health check
func (c *WorkerChecker) Check(ctx context.Context) CheckResult {
	if c.isRunning() {
		return NewHealthyResult(c.name, "worker running")
	}
	return NewDegradedResult(c.name, "worker not running")
}

// Name returns the checker name
func (c *WorkerChecker) Name() string {
	return c.name
}
