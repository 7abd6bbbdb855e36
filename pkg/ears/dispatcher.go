package ears

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/randalmurphal/ears/pkg/ears/observability"
)

// Policy is the fan-out strategy a Dispatcher uses for a batch.
type Policy string

const (
	// Parallel launches every handler of the batch before waiting for any,
	// then waits for all of them and reports every failure.
	Parallel Policy = "parallel"

	// Sequential runs handlers one at a time in batch order, then
	// registration order, and stops at the first failure.
	Sequential Policy = "sequential"
)

// Dispatcher routes events to the listeners registered for their type.
// A Dispatcher is safe for concurrent use, including registering listeners
// while dispatches are in flight.
type Dispatcher struct {
	registry *Registry
	resolver Resolver
	policy   Policy

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// New creates a Dispatcher from opts, resolving listeners through resolver.
//
// When opts.AutoDiscoverListeners is set, every pair returned by
// Scan(opts.ModulesToScan...) is registered before New returns.
//
// New returns a *ConfigurationError (and no Dispatcher) if opts is nil,
// auto-discovery is enabled with no modules, or resolver is nil.
func New(opts *Options, resolver Resolver) (*Dispatcher, error) {
	if opts == nil {
		return nil, &ConfigurationError{Err: ErrNilOptions}
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if resolver == nil {
		return nil, &ConfigurationError{Field: "resolver", Err: ErrNilResolver}
	}

	cfg := opts.clone()
	policy := Sequential
	if cfg.ParallelDispatch {
		policy = Parallel
	}

	d := &Dispatcher{
		registry: newRegistry(cfg.Logger, cfg.Metrics),
		resolver: resolver,
		policy:   policy,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		spans:    cfg.Spans,
	}

	if cfg.AutoDiscoverListeners {
		found := Scan(cfg.ModulesToScan...)
		for _, f := range found {
			if err := d.registry.Register(f.Event, f.Listener); err != nil {
				return nil, fmt.Errorf("register discovered listener %s: %w", f.Listener, err)
			}
		}
		observability.LogDiscovery(cfg.Logger, cfg.ModulesToScan, len(found))
	}

	return d, nil
}

// Registry returns the dispatcher's listener registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Policy returns the configured dispatch policy.
func (d *Dispatcher) Policy() Policy {
	return d.policy
}

// RegisterListener registers listenerType for eventType. Registering the
// same pair twice is a no-op.
func (d *Dispatcher) RegisterListener(eventType, listenerType reflect.Type) error {
	return d.registry.Register(eventType, listenerType)
}

// RegisterListeners registers each listener type for eventType in order.
func (d *Dispatcher) RegisterListeners(eventType reflect.Type, listenerTypes ...reflect.Type) error {
	return d.registry.RegisterAll(eventType, listenerTypes...)
}

// On registers listener type L for event type E on d.
//
//	ears.On[OrderPlaced, *AuditListener](d)
func On[E any, L Listener](d *Dispatcher) error {
	return d.RegisterListener(TypeOf[E](), TypeOf[L]())
}

// Dispatch delivers events to their registered listeners and blocks until
// the batch is done according to the dispatcher's policy.
//
// ctx is handed unchanged to every Handle call; Dispatch never cancels it
// and never abandons a running handler. A nil ctx is treated as
// context.Background().
//
// Failures are *ResolutionError or *ListenerExecutionError values. Under the
// Parallel policy all failures of the batch are combined and returned after
// every handler has finished; use errors.As to inspect them. Under the
// Sequential policy the first failure is returned immediately.
//
// Events with no registered listeners are skipped. A nil event fails the
// whole call with ErrNilEvent before any listener runs.
func (d *Dispatcher) Dispatch(ctx context.Context, events ...any) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	for i, evt := range events {
		if evt == nil {
			return fmt.Errorf("event %d: %w", i, ErrNilEvent)
		}
	}

	dispatchID := uuid.NewString()
	logger := observability.EnrichLogger(d.logger, dispatchID)
	start := time.Now()

	ctx, span := d.spans.StartDispatchSpan(ctx, dispatchID, string(d.policy), len(events))
	defer func() {
		d.spans.EndSpanWithError(span, err)
		d.metrics.RecordDispatch(ctx, string(d.policy), len(events), time.Since(start), err)
	}()

	observability.LogDispatchStart(logger, string(d.policy), len(events))

	var invoked int
	if d.policy == Parallel {
		invoked, err = d.dispatchParallel(ctx, logger, events)
	} else {
		invoked, err = d.dispatchSequential(ctx, logger, events)
	}

	durationMs := float64(time.Since(start).Milliseconds())
	if err != nil {
		observability.LogDispatchError(logger, err, durationMs)
		return err
	}
	observability.LogDispatchComplete(logger, durationMs, invoked)
	return nil
}

// invocation is one (event, listener) pair of a batch.
type invocation struct {
	event        any
	eventType    reflect.Type
	listenerType reflect.Type
}

// dispatchParallel launches every invocation of the batch, then waits for all.
func (d *Dispatcher) dispatchParallel(ctx context.Context, logger *slog.Logger, events []any) (int, error) {
	var invocations []invocation
	for _, evt := range events {
		et := EventTypeOf(evt)
		for _, lt := range d.registry.ListenersFor(et) {
			invocations = append(invocations, invocation{event: evt, eventType: et, listenerType: lt})
		}
	}
	if len(invocations) == 0 {
		return 0, nil
	}

	errs := make([]error, len(invocations))
	var wg sync.WaitGroup
	wg.Add(len(invocations))
	for i := range invocations {
		go func(i int) {
			defer wg.Done()
			errs[i] = d.invoke(ctx, logger, invocations[i])
		}(i)
	}
	wg.Wait()

	return len(invocations), multierr.Combine(errs...)
}

// dispatchSequential runs invocations one by one and stops at the first failure.
func (d *Dispatcher) dispatchSequential(ctx context.Context, logger *slog.Logger, events []any) (int, error) {
	invoked := 0
	for _, evt := range events {
		et := EventTypeOf(evt)
		for _, lt := range d.registry.ListenersFor(et) {
			invoked++
			if err := d.invoke(ctx, logger, invocation{event: evt, eventType: et, listenerType: lt}); err != nil {
				return invoked, err
			}
		}
	}
	return invoked, nil
}

// invoke resolves and runs a single listener.
func (d *Dispatcher) invoke(ctx context.Context, logger *slog.Logger, inv invocation) error {
	eventName, listenerName := inv.eventType.String(), inv.listenerType.String()

	listener, err := resolve(d.resolver, inv.listenerType)
	if err != nil {
		resErr := &ResolutionError{EventType: inv.eventType, ListenerType: inv.listenerType, Err: err}
		observability.LogListenerError(logger, eventName, listenerName, resErr)
		return resErr
	}

	ctx, span := d.spans.StartListenerSpan(ctx, eventName, listenerName)
	observability.LogListenerStart(logger, eventName, listenerName)
	start := time.Now()

	err = handle(ctx, listener, inv.event)

	duration := time.Since(start)
	d.spans.EndSpanWithError(span, err)
	d.metrics.RecordListenerInvocation(ctx, eventName, listenerName, duration, err)

	if err != nil {
		execErr := &ListenerExecutionError{EventType: inv.eventType, ListenerType: inv.listenerType, Err: err}
		observability.LogListenerError(logger, eventName, listenerName, execErr)
		return execErr
	}
	observability.LogListenerComplete(logger, eventName, listenerName, float64(duration.Milliseconds()))
	return nil
}

func resolve(resolver Resolver, listenerType reflect.Type) (l Listener, err error) {
	defer func() {
		if r := recover(); r != nil {
			l, err = nil, &PanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()

	l, err = resolver.Resolve(listenerType)
	if err == nil && isNilListener(l) {
		l, err = nil, ErrNilListener
	}
	return l, err
}

// isNilListener reports whether l is nil or wraps a nil value.
func isNilListener(l Listener) bool {
	if l == nil {
		return true
	}
	switch v := reflect.ValueOf(l); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func handle(ctx context.Context, l Listener, event any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()
	return l.Handle(ctx, event)
}
