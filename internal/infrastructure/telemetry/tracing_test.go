package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/formax/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// recordSpans swaps in an in-memory tracer provider for the test and
// restores the global one afterwards.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})

	return recorder
}

func attributesOf(span sdktrace.ReadOnlySpan) map[string]any {
	m := make(map[string]any)
	for _, attr := range span.Attributes() {
		m[string(attr.Key)] = attr.Value.AsInterface()
	}
	return m
}

func TestStartSpan(t *testing.T) {
	t.Run("defaults to internal kind", func(t *testing.T) {
		recorder := recordSpans(t)

		_, span := telemetry.StartSpan(context.Background(), "session.schedule")
		span.End()

		ended := recorder.Ended()
		require.Len(t, ended, 1)
		assert.Equal(t, "session.schedule", ended[0].Name())
		assert.Equal(t, trace.SpanKindInternal, ended[0].SpanKind())
	})

	t.Run("honors start options", func(t *testing.T) {
		recorder := recordSpans(t)

		_, span := telemetry.StartSpan(context.Background(), "woocommerce.publish",
			telemetry.WithAttribute("course_code", "PRL-20"),
			telemetry.WithSpanKind(trace.SpanKindClient),
		)
		span.End()

		ended := recorder.Ended()
		require.Len(t, ended, 1)
		assert.Equal(t, trace.SpanKindClient, ended[0].SpanKind())
		assert.Equal(t, "PRL-20", attributesOf(ended[0])["course_code"])
	})

	t.Run("children join the parent trace", func(t *testing.T) {
		recorder := recordSpans(t)

		ctx, parent := telemetry.StartSpan(context.Background(), "deal.convert")
		_, child := telemetry.StartSpan(ctx, "session.schedule")
		child.End()
		parent.End()

		ended := recorder.Ended()
		require.Len(t, ended, 2)

		byName := map[string]sdktrace.ReadOnlySpan{}
		for _, s := range ended {
			byName[s.Name()] = s
		}
		parentSpan, childSpan := byName["deal.convert"], byName["session.schedule"]
		require.NotNil(t, parentSpan)
		require.NotNil(t, childSpan)

		assert.Equal(t, parentSpan.SpanContext().TraceID(), childSpan.SpanContext().TraceID())
		assert.Equal(t, parentSpan.SpanContext().SpanID(), childSpan.Parent().SpanID())
	})
}

func TestStartServiceSpan(t *testing.T) {
	recorder := recordSpans(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "certificate", "issue")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "certificate.issue", ended[0].Name())
}

func TestSetAttributes(t *testing.T) {
	t.Run("converts supported value types", func(t *testing.T) {
		recorder := recordSpans(t)

		_, span := telemetry.StartSpan(context.Background(), "payroll.generate")
		telemetry.SetAttributes(span,
			"period", "2026-03",
			"line_count", 42,
			"total_cents", int64(183000),
			"utilization", 0.85,
			"frozen", false,
			"trainer_ids", []string{"t-1", "t-2"},
		)
		span.End()

		ended := recorder.Ended()
		require.Len(t, ended, 1)
		attrs := attributesOf(ended[0])
		assert.Equal(t, "2026-03", attrs["period"])
		assert.Equal(t, int64(42), attrs["line_count"])
		assert.Equal(t, int64(183000), attrs["total_cents"])
		assert.Equal(t, 0.85, attrs["utilization"])
		assert.Equal(t, false, attrs["frozen"])
		assert.Equal(t, []string{"t-1", "t-2"}, attrs["trainer_ids"])
	})

	t.Run("drops orphan and non-string keys", func(t *testing.T) {
		recorder := recordSpans(t)

		_, span := telemetry.StartSpan(context.Background(), "payroll.generate")
		telemetry.SetAttributes(span,
			"period", "2026-03",
			7, "keyed by int",
			"orphan",
		)
		span.End()

		ended := recorder.Ended()
		require.Len(t, ended, 1)
		assert.Len(t, ended[0].Attributes(), 1)
	})

	t.Run("nil span is a no-op", func(t *testing.T) {
		telemetry.SetAttributes(nil, "key", "value")
	})
}

func TestSetAttributeStringer(t *testing.T) {
	recorder := recordSpans(t)

	sessionID := uuid.New()
	_, span := telemetry.StartSpan(context.Background(), "session.cancel")
	telemetry.SetAttribute(span, "session_id", sessionID)
	telemetry.SetAttribute(nil, "ignored", "value")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, sessionID.String(), attributesOf(ended[0])["session_id"])
}

func TestRecordError(t *testing.T) {
	t.Run("marks the span failed", func(t *testing.T) {
		recorder := recordSpans(t)

		_, span := telemetry.StartSpan(context.Background(), "certificate.render")
		telemetry.RecordError(span, errors.New("chromedp: page load timed out"))
		span.End()

		ended := recorder.Ended()
		require.Len(t, ended, 1)
		assert.Equal(t, codes.Error, ended[0].Status().Code)
		assert.Equal(t, "chromedp: page load timed out", ended[0].Status().Description)

		events := ended[0].Events()
		require.NotEmpty(t, events)
		assert.Equal(t, "exception", events[0].Name)
	})

	t.Run("nil error leaves status unset", func(t *testing.T) {
		recorder := recordSpans(t)

		_, span := telemetry.StartSpan(context.Background(), "certificate.render")
		telemetry.RecordError(span, nil)
		span.End()

		ended := recorder.Ended()
		require.Len(t, ended, 1)
		assert.NotEqual(t, codes.Error, ended[0].Status().Code)
	})

	t.Run("nil span is a no-op", func(t *testing.T) {
		telemetry.RecordError(nil, errors.New("ignored"))
	})
}

func TestSetOK(t *testing.T) {
	recorder := recordSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "order.place")
	telemetry.SetOK(span)
	span.End()
	telemetry.SetOK(nil)

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Ok, ended[0].Status().Code)
}

func TestAddEvent(t *testing.T) {
	recorder := recordSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "webhook.process")
	telemetry.AddEvent(span, "deal_stage_moved",
		"pipedrive_id", 4711,
		"stage", "won",
	)
	telemetry.AddEvent(nil, "ignored")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	events := ended[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "deal_stage_moved", events[0].Name)

	attrs := map[string]any{}
	for _, attr := range events[0].Attributes {
		attrs[string(attr.Key)] = attr.Value.AsInterface()
	}
	assert.Equal(t, int64(4711), attrs["pipedrive_id"])
	assert.Equal(t, "won", attrs["stage"])
}

func TestSpanContextHelpers(t *testing.T) {
	recordSpans(t)

	bare := context.Background()
	assert.Empty(t, telemetry.GetTraceID(bare))
	assert.Empty(t, telemetry.GetSpanID(bare))
	assert.NotNil(t, telemetry.SpanFromContext(bare), "must return a usable no-op span")

	ctx, span := telemetry.StartSpan(bare, "session.review")
	defer span.End()

	assert.Len(t, telemetry.GetTraceID(ctx), 32)
	assert.Len(t, telemetry.GetSpanID(ctx), 16)
	assert.Equal(t, span.SpanContext().SpanID(), telemetry.SpanFromContext(ctx).SpanContext().SpanID())

	carried := telemetry.ContextWithSpan(context.Background(), span)
	assert.Equal(t, span.SpanContext().SpanID(), telemetry.SpanFromContext(carried).SpanContext().SpanID())
}
