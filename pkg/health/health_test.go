package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubPinger struct{ err error }

func (s stubPinger) HealthCheck(ctx context.Context) error { return s.err }

type staticChecker struct {
	name   string
	status Status
}

func (s staticChecker) Check(ctx context.Context) CheckResult {
	return NewCheckResult(s.name, s.status, "", nil)
}

func (s staticChecker) Name() string { return s.name }

func TestHealthChecker_Check(t *testing.T) {
	tests := []struct {
		name     string
		required Status
		optional Status
		want     Status
	}{
		{"all healthy", StatusHealthy, StatusHealthy, StatusHealthy},
		{"optional down degrades", StatusHealthy, StatusUnhealthy, StatusDegraded},
		{"required degraded", StatusDegraded, StatusHealthy, StatusDegraded},
		{"required down", StatusUnhealthy, StatusHealthy, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthChecker(0)
			h.Register(staticChecker{name: "cache", status: tt.required})
			h.RegisterOptional(staticChecker{name: "basket_api", status: tt.optional})

			status, results := h.Check(context.Background())
			assert.Equal(t, tt.want, status)
			assert.Len(t, results, 2)
			assert.Equal(t, tt.want == StatusHealthy, h.IsHealthy(context.Background()))
		})
	}
}

func TestRemoteAPIChecker(t *testing.T) {
	ok := NewRemoteAPIChecker("basket_api", stubPinger{}, 0).Check(context.Background())
	assert.Equal(t, StatusHealthy, ok.Status)

	down := NewRemoteAPIChecker("basket_api", stubPinger{err: errors.New("connection refused")}, 0).Check(context.Background())
	assert.Equal(t, StatusUnhealthy, down.Status)
	assert.Equal(t, "connection refused", down.Error)
}

func TestCircuitBreakerChecker(t *testing.T) {
	for state, want := range map[string]Status{
		"closed":    StatusHealthy,
		"half-open": StatusDegraded,
		"open":      StatusUnhealthy,
		"":          StatusUnhealthy,
	} {
		c := NewCircuitBreakerChecker("basket_api_breaker", func() map[string]interface{} {
			return map[string]interface{}{"circuit_breaker_state": state}
		})
		assert.Equal(t, want, c.Check(context.Background()).Status, state)
	}
}

func TestWorkerChecker(t *testing.T) {
	running := true
	c := NewWorkerChecker("cache_warmer", func() bool { return running })
	assert.Equal(t, StatusHealthy, c.Check(context.Background()).Status)
	running = false
	assert.Equal(t, StatusDegraded, c.Check(context.Background()).Status)
}
