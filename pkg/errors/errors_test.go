package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{"nil", nil, ""},
		{"app error keeps its type", WrapValidation(nil, "INVALID_AMOUNT", "bad amount"), ErrorTypeValidation},
		{"deadline", fmt.Errorf("fetch: %w", context.DeadlineExceeded), ErrorTypeTimeout},
		{"canceled", context.Canceled, ErrorTypeInternal},
		{"connection refused errno", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), ErrorTypeTransient},
		{"breaker open message", errors.New("circuit breaker is open"), ErrorTypeExternal},
		{"rate limit message", errors.New("429 too many requests"), ErrorTypeRateLimit},
		{"anything else", errors.New("boom"), ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyError(tt.err))
		})
	}
}

func TestGetStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, GetStatusCode(WrapValidation(nil, "INVALID_HORIZON", "bad horizon")))
	assert.Equal(t, http.StatusNotFound, GetStatusCode(WrapNotFound(nil, "BASKET_NOT_FOUND", "missing")))
	assert.Equal(t, http.StatusGatewayTimeout, GetStatusCode(context.DeadlineExceeded))
	assert.Equal(t, http.StatusInternalServerError, GetStatusCode(errors.New("boom")))
}

func TestWrapWithType(t *testing.T) {
	cause := errors.New("upstream down")
	err := WrapWithType(cause, ErrorTypeExternal, "UPSTREAM_UNAVAILABLE", "basket API unavailable")

	assert.True(t, err.Retryable)
	assert.Equal(t, http.StatusBadGateway, err.StatusCode)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "external: basket API unavailable: upstream down", err.Error())

	internal := WrapInternal(cause, "failed")
	assert.False(t, internal.Retryable)
	assert.True(t, errors.Is(internal, &AppError{Type: ErrorTypeInternal, Code: "INTERNAL_ERROR"}))
}
