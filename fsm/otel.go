package fsm

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "fsm"

// Identified entities get a hashed identifier attached to spans.
type Identified interface {
	FSMID() string
}

// startFireSpan creates the span for one dispatch.
// Uses the global tracer provider (see the telemetry package).
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller
func startFireSpan(ctx context.Context, class, method string, entity any) (context.Context, trace.Span) {
	spanName := "fsm.fire"
	ctx, span := otel.Tracer(tracerName).Start(ctx, spanName)
	span.SetAttributes(
		attribute.String("fsm.class", class),
		attribute.String("fsm.method", method),
	)
	addEntityAttributes(span, entity)
	logSpanDebug(ctx, "started", spanName, span)

	return ctx, span
}

// finishFireSpan records the dispatch outcome and ends the span.
func finishFireSpan(span trace.Span, result Result, outcome string, err error) {
	span.SetAttributes(
		attribute.String("fsm.from", string(result.From)),
		attribute.String("fsm.to", string(result.To)),
		attribute.String("fsm.outcome", outcome),
		attribute.Bool("fsm.applied", result.Applied),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, outcome)
	}

	span.End()
}

// startAccessibleSpan creates the span for an introspection call.
//
//nolint:spancheck // Span lifecycle managed by caller
func startAccessibleSpan(ctx context.Context, class string, entity any) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "fsm.accessible")
	span.SetAttributes(attribute.String("fsm.class", class))
	addEntityAttributes(span, entity)

	return ctx, span
}

func accessibleAttributes(current State, candidates, accessible int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("fsm.state", string(current)),
		attribute.Int("fsm.candidates", candidates),
		attribute.Int("fsm.accessible", accessible),
	}
}

func addEntityAttributes(span trace.Span, entity any) {
	if identified, ok := entity.(Identified); ok {
		span.SetAttributes(attribute.String("fsm.entity_id_hash", hashID(identified.FSMID())))
	}
}

// hashID creates a short hash of an ID for span attributes (privacy).
func hashID(id string) string {
	if id == "" {
		return ""
	}

	return strconv.FormatUint(xxh3.HashString(id), 16)
}

// logSpanDebug logs span creation when FSM_DEBUG is enabled.
func logSpanDebug(ctx context.Context, phase string, spanName string, span trace.Span) {
	if !isDebugMode() {
		return
	}

	spanCtx := span.SpanContext()
	slog.DebugContext(ctx, "OTEL Span "+phase,
		"span_name", spanName,
		"trace_id", spanCtx.TraceID().String(),
		"span_id", spanCtx.SpanID().String(),
	)
}

// extractTraceContext extracts trace ID and span ID from context for logging.
func extractTraceContext(ctx context.Context) (traceID, spanID string) {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		spanCtx := span.SpanContext()

		return spanCtx.TraceID().String(), spanCtx.SpanID().String()
	}

	return "", ""
}

func isDebugMode() bool {
	return os.Getenv("FSM_DEBUG") == "1" || strings.EqualFold(os.Getenv("FSM_DEBUG"), "true")
}
