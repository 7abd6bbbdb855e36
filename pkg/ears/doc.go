/*
Package ears provides in-process event dispatch keyed by concrete Go types.

# Overview

ears delivers events to the listeners registered for each event's exact
dynamic type. It is designed for decoupling the parts of one program:
the code raising an event does not know who handles it, and listeners are
built on demand by a pluggable Resolver (a dependency injection container, a
factory table, or a plain function).

Event types and listener types are reflect.Type values. Matching is exact:
OrderPlaced and *OrderPlaced are different event types, and a listener
registered for an interface type never receives concrete events.

# Basic Usage

Define an event and a listener, register the pair, then dispatch:

	type OrderPlaced struct{ ID string }

	type AuditListener struct{ log *slog.Logger }

	func (l *AuditListener) Handle(ctx context.Context, event any) error {
	    switch e := event.(type) {
	    case OrderPlaced:
	        l.log.Info("order placed", "id", e.ID)
	    }
	    return nil
	}

	func main() {
	    resolver := ears.NewFactoryResolver()
	    resolver.RegisterInstance(&AuditListener{log: slog.Default()})

	    opts := ears.DefaultOptions()
	    opts.AutoDiscoverListeners = false

	    d, err := ears.New(opts, resolver)
	    if err != nil {
	        log.Fatal(err)
	    }
	    if err := ears.On[OrderPlaced, *AuditListener](d); err != nil {
	        log.Fatal(err)
	    }

	    if err := d.Dispatch(context.Background(), OrderPlaced{ID: "42"}); err != nil {
	        log.Fatal(err)
	    }
	}

# Discovery

Packages announce their listeners from init functions:

	func init() {
	    ears.Discover(NewAuditListener, ears.TypeOf[OrderPlaced]())
	}

The announcing package's import path is its module. With
Options.AutoDiscoverListeners set, New registers every pair found by
Scan(Options.ModulesToScan...). DefaultOptions scans the calling package.

# Dispatch Policies

With Options.ParallelDispatch (the default) every (event, listener) handler
of a batch is started before any is awaited, and Dispatch returns once all
of them have finished. All failures are combined into the returned error.

Without it, handlers run one at a time: events in batch order, listeners in
registration order. The first failure is returned and nothing after it runs.

# Error Handling

Failures carry the event and listener types involved:

	err := d.Dispatch(ctx, evt)
	var resErr *ears.ResolutionError
	if errors.As(err, &resErr) {
	    log.Printf("cannot build %s: %v", resErr.ListenerType, resErr.Err)
	}

	var execErr *ears.ListenerExecutionError
	if errors.As(err, &execErr) {
	    log.Printf("%s failed: %v", execErr.ListenerType, execErr.Err)
	}

Panics in Resolve or Handle are recovered and converted to *PanicError with
a stack trace. New returns *ConfigurationError for unusable options.

# Observability

Options.Logger, Options.Metrics and Options.Spans enable structured logging,
metrics and tracing. See the observability subpackage.

# Thread Safety

  - Dispatcher IS safe for concurrent use
  - Registry IS safe for concurrent use; registrations made during a
    dispatch are seen by lookups that happen after them
  - FactoryResolver IS safe for concurrent use
  - Discover is meant for init functions but is safe to call at any time

# Subpackages

  - config: Options from YAML, JSON, and environment variables
  - earsfx: Integration with the go.uber.org/fx container
  - observability: Logging, metrics, and tracing helpers
*/
package ears
