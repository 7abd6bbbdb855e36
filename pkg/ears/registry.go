package ears

import (
	"context"
	"log/slog"
	"reflect"
	"sort"
	"sync"

	"github.com/randalmurphal/ears/pkg/ears/observability"
)

// Registry maps event types to the ordered, duplicate-free list of listener
// types registered against them. Entries are append-only.
//
// Lists are copy-on-write: a registration builds a new slice and publishes
// it, so a slice returned by ListenersFor is never modified afterwards and
// can be iterated without holding any lock.
type Registry struct {
	// writeMu serializes registrations so check-then-append is atomic.
	writeMu sync.Mutex

	mu      sync.RWMutex
	entries map[reflect.Type][]reflect.Type

	logger  *slog.Logger
	metrics observability.MetricsRecorder
}

// NewRegistry creates an empty registry with no logging or metrics.
func NewRegistry() *Registry {
	return newRegistry(nil, observability.NoopMetrics{})
}

func newRegistry(logger *slog.Logger, metrics observability.MetricsRecorder) *Registry {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &Registry{
		entries: make(map[reflect.Type][]reflect.Type),
		logger:  logger,
		metrics: metrics,
	}
}

// Register adds listenerType to eventType's list if it is not already there.
// Registering the same pair twice is a no-op.
func (r *Registry) Register(eventType, listenerType reflect.Type) error {
	return r.RegisterAll(eventType, listenerType)
}

// RegisterAll registers each listener type against eventType, preserving
// argument order for the ones not already present. Nothing is registered if
// any argument is nil.
func (r *Registry) RegisterAll(eventType reflect.Type, listenerTypes ...reflect.Type) error {
	if eventType == nil {
		return ErrNilType
	}
	for _, lt := range listenerTypes {
		if lt == nil {
			return ErrNilType
		}
	}
	if len(listenerTypes) == 0 {
		return nil
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	r.mu.RLock()
	current := r.entries[eventType]
	r.mu.RUnlock()

	var added []reflect.Type
	for _, lt := range listenerTypes {
		if containsType(current, lt) || containsType(added, lt) {
			continue
		}
		added = append(added, lt)
	}
	if len(added) == 0 {
		return nil
	}

	next := make([]reflect.Type, 0, len(current)+len(added))
	next = append(next, current...)
	next = append(next, added...)

	r.mu.Lock()
	r.entries[eventType] = next
	r.mu.Unlock()

	for _, lt := range added {
		observability.LogListenerRegistered(r.logger, eventType.String(), lt.String())
		r.metrics.RecordRegistration(context.Background(), eventType.String())
	}
	return nil
}

// ListenersFor returns the listener types registered for exactly eventType,
// in registration order. Returns nil when none are registered.
// The returned slice must not be modified.
func (r *Registry) ListenersFor(eventType reflect.Type) []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[eventType]
}

// EventTypes returns every event type with at least one listener,
// sorted by type name.
func (r *Registry) EventTypes() []reflect.Type {
	r.mu.RLock()
	types := make([]reflect.Type, 0, len(r.entries))
	for t := range r.entries {
		types = append(types, t)
	}
	r.mu.RUnlock()

	sort.Slice(types, func(i, j int) bool {
		return types[i].String() < types[j].String()
	})
	return types
}

// Len returns the total number of (event type, listener type) registrations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, listeners := range r.entries {
		n += len(listeners)
	}
	return n
}

func containsType(types []reflect.Type, t reflect.Type) bool {
	for _, existing := range types {
		if existing == t {
			return true
		}
	}
	return false
}
