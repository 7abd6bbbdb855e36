package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartDispatchSpan starts a span covering one Dispatch call.
	StartDispatchSpan(ctx context.Context, dispatchID, policy string, events int) (context.Context, trace.Span)

	// StartListenerSpan starts a span for one listener invocation.
	// It should be a child of the dispatch span.
	StartListenerSpan(ctx context.Context, eventType, listenerType string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct {
	tracer trace.Tracer
}

// NewSpanManager returns a SpanManager that uses the global OpenTelemetry
// tracer provider. Configure the provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{tracer: otel.Tracer("ears")}
}

// NewSpanManagerFromProvider returns a SpanManager using the given provider.
func NewSpanManagerFromProvider(tp trace.TracerProvider) SpanManager {
	return &otelSpanManager{tracer: tp.Tracer("ears")}
}

// StartDispatchSpan starts a span for a dispatch call.
func (m *otelSpanManager) StartDispatchSpan(ctx context.Context, dispatchID, policy string, events int) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "ears.dispatch",
		trace.WithAttributes(
			attribute.String("dispatch.id", dispatchID),
			attribute.String("dispatch.policy", policy),
			attribute.Int("dispatch.events", events),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartListenerSpan starts a span for a listener invocation.
func (m *otelSpanManager) StartListenerSpan(ctx context.Context, eventType, listenerType string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "ears.listener",
		trace.WithAttributes(
			attribute.String("event.type", eventType),
			attribute.String("listener.type", listenerType),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	AddSpanEvent(ctx, name, attrs...)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
