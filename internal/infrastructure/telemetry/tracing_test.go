package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ServiLut/tote-bag/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)
	productID := uuid.New()

	ctx, span := telemetry.StartServiceSpan(context.Background(), "catalog", "create",
		telemetry.SpanAttrProductID, productID,
		telemetry.SpanAttrCacheHit, false,
	)
	assert.NotEmpty(t, telemetry.GetTraceID(ctx))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "catalog.create", spans[0].Name())
	assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind())

	got := attrs(spans[0])
	assert.Equal(t, productID.String(), got[telemetry.SpanAttrProductID].AsString())
	assert.False(t, got[telemetry.SpanAttrCacheHit].AsBool())
}

func TestSetAttributes(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "order", "create")
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderNumber, "TB-20261017-0042",
		"items", 3,
		"total", int64(129000),
		42, "non-string key",
		"dangling",
	)
	span.End()

	got := attrs(sr.Ended()[0])
	assert.Equal(t, "TB-20261017-0042", got[telemetry.SpanAttrOrderNumber].AsString())
	assert.Equal(t, int64(3), got["items"].AsInt64())
	assert.Equal(t, int64(129000), got["total"].AsInt64())
	assert.Len(t, got, 3)

	assert.NotPanics(t, func() { telemetry.SetAttributes(nil, "k", "v") })
}

func TestRecordError(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "b2b", "create")
	telemetry.RecordError(span, errors.New("upload failed"))
	span.End()

	ended := sr.Ended()[0]
	assert.Equal(t, codes.Error, ended.Status().Code)
	assert.Equal(t, "upload failed", ended.Status().Description)
	require.Len(t, ended.Events(), 1)
	assert.Equal(t, "exception", ended.Events()[0].Name)

	assert.NotPanics(t, func() {
		telemetry.RecordError(nil, errors.New("x"))
		telemetry.RecordError(span, nil)
	})
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, telemetry.GetTraceID(context.Background()))
}
