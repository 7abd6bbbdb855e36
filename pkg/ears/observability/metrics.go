package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records dispatcher metrics.
// Use NewMetricsRecorder() for OTel metrics, NewPrometheusRecorder() for
// Prometheus, or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordDispatch records a finished Dispatch call.
	RecordDispatch(ctx context.Context, policy string, events int, duration time.Duration, err error)

	// RecordListenerInvocation records one listener Handle call.
	RecordListenerInvocation(ctx context.Context, eventType, listenerType string, duration time.Duration, err error)

	// RecordRegistration records a new (event type, listener type) registration.
	RecordRegistration(ctx context.Context, eventType string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	dispatches       metric.Int64Counter
	dispatchLatency  metric.Float64Histogram
	dispatchedEvents metric.Int64Counter
	invocations      metric.Int64Counter
	listenerLatency  metric.Float64Histogram
	listenerErrors   metric.Int64Counter
	registrations    metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics(otel.Meter("ears"))
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics(meter metric.Meter) (*otelMetrics, error) {
	dispatches, err := meter.Int64Counter("ears.dispatch.count",
		metric.WithDescription("Number of dispatch calls"),
	)
	if err != nil {
		return nil, err
	}

	dispatchLatency, err := meter.Float64Histogram("ears.dispatch.latency_ms",
		metric.WithDescription("Dispatch latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	dispatchedEvents, err := meter.Int64Counter("ears.dispatch.events",
		metric.WithDescription("Number of events submitted to dispatch"),
	)
	if err != nil {
		return nil, err
	}

	invocations, err := meter.Int64Counter("ears.listener.invocations",
		metric.WithDescription("Number of listener invocations"),
	)
	if err != nil {
		return nil, err
	}

	listenerLatency, err := meter.Float64Histogram("ears.listener.latency_ms",
		metric.WithDescription("Listener handle latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	listenerErrors, err := meter.Int64Counter("ears.listener.errors",
		metric.WithDescription("Number of failed listener invocations"),
	)
	if err != nil {
		return nil, err
	}

	registrations, err := meter.Int64Counter("ears.registry.registrations",
		metric.WithDescription("Number of listener registrations"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		dispatches:       dispatches,
		dispatchLatency:  dispatchLatency,
		dispatchedEvents: dispatchedEvents,
		invocations:      invocations,
		listenerLatency:  listenerLatency,
		listenerErrors:   listenerErrors,
		registrations:    registrations,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// NewMetricsRecorderFromMeter returns an OpenTelemetry MetricsRecorder using
// the given meter instead of the global provider.
func NewMetricsRecorderFromMeter(meter metric.Meter) (MetricsRecorder, error) {
	return newOtelMetrics(meter)
}

// RecordDispatch records a dispatch call.
func (m *otelMetrics) RecordDispatch(ctx context.Context, policy string, events int, duration time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("policy", policy),
		attribute.Bool("success", err == nil),
	)
	m.dispatches.Add(ctx, 1, attrs)
	m.dispatchedEvents.Add(ctx, int64(events), attrs)
	m.dispatchLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordListenerInvocation records a listener invocation.
func (m *otelMetrics) RecordListenerInvocation(ctx context.Context, eventType, listenerType string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("event_type", eventType),
		attribute.String("listener_type", listenerType),
	)

	m.invocations.Add(ctx, 1, attrs)
	m.listenerLatency.Record(ctx, float64(duration.Milliseconds()), attrs)

	if err != nil {
		m.listenerErrors.Add(ctx, 1, attrs)
	}
}

// RecordRegistration records a listener registration.
func (m *otelMetrics) RecordRegistration(ctx context.Context, eventType string) {
	m.registrations.Add(ctx, 1, metric.WithAttributes(attribute.String("event_type", eventType)))
}
