package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// promMetrics implements MetricsRecorder using Prometheus collectors.
type promMetrics struct {
	dispatches      *prometheus.CounterVec
	dispatchLatency *prometheus.HistogramVec
	invocations     *prometheus.CounterVec
	listenerLatency *prometheus.HistogramVec
	listenerErrors  *prometheus.CounterVec
	registrations   *prometheus.CounterVec
}

// Compile-time interface check.
var _ MetricsRecorder = (*promMetrics)(nil)

// NewPrometheusRecorder returns a MetricsRecorder whose collectors are
// registered with reg. Pass prometheus.DefaultRegisterer to expose them on
// the default /metrics handler.
func NewPrometheusRecorder(reg prometheus.Registerer) (MetricsRecorder, error) {
	m := &promMetrics{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ears",
			Name:      "dispatches_total",
			Help:      "Number of dispatch calls.",
		}, []string{"policy", "success"}),
		dispatchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ears",
			Name:      "dispatch_duration_seconds",
			Help:      "Dispatch latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"policy"}),
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ears",
			Name:      "listener_invocations_total",
			Help:      "Number of listener invocations.",
		}, []string{"event_type", "listener_type"}),
		listenerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ears",
			Name:      "listener_duration_seconds",
			Help:      "Listener handle latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"event_type", "listener_type"}),
		listenerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ears",
			Name:      "listener_errors_total",
			Help:      "Number of failed listener invocations.",
		}, []string{"event_type", "listener_type"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ears",
			Name:      "registrations_total",
			Help:      "Number of listener registrations.",
		}, []string{"event_type"}),
	}

	collectors := []prometheus.Collector{
		m.dispatches,
		m.dispatchLatency,
		m.invocations,
		m.listenerLatency,
		m.listenerErrors,
		m.registrations,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordDispatch records a dispatch call.
func (m *promMetrics) RecordDispatch(_ context.Context, policy string, _ int, duration time.Duration, err error) {
	m.dispatches.WithLabelValues(policy, strconv.FormatBool(err == nil)).Inc()
	m.dispatchLatency.WithLabelValues(policy).Observe(duration.Seconds())
}

// RecordListenerInvocation records a listener invocation.
func (m *promMetrics) RecordListenerInvocation(_ context.Context, eventType, listenerType string, duration time.Duration, err error) {
	m.invocations.WithLabelValues(eventType, listenerType).Inc()
	m.listenerLatency.WithLabelValues(eventType, listenerType).Observe(duration.Seconds())
	if err != nil {
		m.listenerErrors.WithLabelValues(eventType, listenerType).Inc()
	}
}

// RecordRegistration records a listener registration.
func (m *promMetrics) RecordRegistration(_ context.Context, eventType string) {
	m.registrations.WithLabelValues(eventType).Inc()
}
