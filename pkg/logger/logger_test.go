package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewLogger(zap.New(core)), logs
}

func TestForBasket(t *testing.T) {
	log, logs := observed()

	log.ForBasket("great-india", "5Y").Warnw("fetch failed", "error", "boom")

	entries := logs.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "great-india", fields["basket"])
	assert.Equal(t, "5Y", fields["horizon"])
	assert.Equal(t, "boom", fields["error"])
}

func TestForRequest(t *testing.T) {
	log, logs := observed()

	log.ForRequest("req-1", "GET", "/api/v1/baskets").Infow("Request completed")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/v1/baskets", fields["path"])
}

func TestWithContext(t *testing.T) {
	log, logs := observed()

	log.CtxWarn(context.Background(), "no span")
	assert.NotContains(t, logs.All()[0].ContextMap(), "trace_id")

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1},
		SpanID:     trace.SpanID{2},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	log.CtxWarn(ctx, "with span")
	fields := logs.All()[1].ContextMap()
	assert.Equal(t, sc.TraceID().String(), fields["trace_id"])
	assert.Equal(t, sc.SpanID().String(), fields["span_id"])
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	log := New("chatty", "test")
	assert.True(t, log.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Desugar().Core().Enabled(zapcore.DebugLevel))
}
