// Package observability provides the logging, metrics, and tracing hooks
// used by the ears dispatcher.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry or Prometheus
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
// Logging helpers accept a nil logger and do nothing with it.
package observability

import (
	"log/slog"
	"strings"
)

// EnrichLogger adds the dispatch ID to a logger.
//
// Example:
//
//	enriched := EnrichLogger(logger, "5b0c...")
//	enriched.Info("doing work") // includes dispatch_id
func EnrichLogger(logger *slog.Logger, dispatchID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("dispatch_id", dispatchID))
}

// LogListenerRegistered logs a new registry entry.
func LogListenerRegistered(logger *slog.Logger, eventType, listenerType string) {
	if logger == nil {
		return
	}
	logger.Info("listener registered",
		slog.String("event_type", eventType),
		slog.String("listener_type", listenerType),
	)
}

// LogDiscovery logs the result of a discovery scan.
func LogDiscovery(logger *slog.Logger, modules []string, found int) {
	if logger == nil {
		return
	}
	logger.Debug("listeners discovered",
		slog.String("modules", strings.Join(modules, ",")),
		slog.Int("pairs", found),
	)
}

// LogDispatchStart logs the start of a dispatch call.
func LogDispatchStart(logger *slog.Logger, policy string, events int) {
	if logger == nil {
		return
	}
	logger.Debug("dispatch starting",
		slog.String("policy", policy),
		slog.Int("events", events),
	)
}

// LogDispatchComplete logs a dispatch in which every listener succeeded.
func LogDispatchComplete(logger *slog.Logger, durationMs float64, invocations int) {
	if logger == nil {
		return
	}
	logger.Info("dispatch completed",
		slog.Float64("duration_ms", durationMs),
		slog.Int("invocations", invocations),
	)
}

// LogDispatchError logs a failed dispatch.
func LogDispatchError(logger *slog.Logger, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("dispatch failed",
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogListenerStart logs a listener invocation.
func LogListenerStart(logger *slog.Logger, eventType, listenerType string) {
	if logger == nil {
		return
	}
	logger.Debug("dispatching event to listener",
		slog.String("event_type", eventType),
		slog.String("listener_type", listenerType),
	)
}

// LogListenerComplete logs a successful listener invocation.
func LogListenerComplete(logger *slog.Logger, eventType, listenerType string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("listener completed",
		slog.String("event_type", eventType),
		slog.String("listener_type", listenerType),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogListenerError logs a listener that could not be resolved or failed.
func LogListenerError(logger *slog.Logger, eventType, listenerType string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("listener failed",
		slog.String("event_type", eventType),
		slog.String("listener_type", listenerType),
		slog.String("error", err.Error()),
	)
}
