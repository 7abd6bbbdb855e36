package ears

import (
	"log/slog"

	"github.com/randalmurphal/ears/pkg/ears/observability"
)

// Options configures a Dispatcher. Options are read once by New and copied;
// changing them afterwards has no effect on the Dispatcher.
type Options struct {
	// AutoDiscoverListeners registers every listener found by Scan over
	// ModulesToScan when the Dispatcher is constructed.
	// Default: true
	AutoDiscoverListeners bool

	// ParallelDispatch selects the parallel policy (launch every handler,
	// then wait for all). When false, handlers run one at a time in batch
	// and registration order and the first failure stops the batch.
	// Default: true
	ParallelDispatch bool

	// ModulesToScan lists the modules (package import paths) passed to Scan.
	// Default: the package that called DefaultOptions.
	ModulesToScan []string

	// Logger receives registration and dispatch logs. Nil disables logging.
	Logger *slog.Logger

	// Metrics records dispatch metrics. Nil means observability.NoopMetrics.
	Metrics observability.MetricsRecorder

	// Spans creates trace spans for dispatches. Nil means
	// observability.NoopSpanManager.
	Spans observability.SpanManager
}

// DefaultOptions returns options with auto-discovery and parallel dispatch
// enabled, scanning the calling package.
//
// Example:
//
//	opts := ears.DefaultOptions()
//	opts.ParallelDispatch = false
//	d, err := ears.New(opts, resolver)
func DefaultOptions() *Options {
	return &Options{
		AutoDiscoverListeners: true,
		ParallelDispatch:      true,
		ModulesToScan:         []string{callerModule(2)},
	}
}

// clone copies o so the Dispatcher is isolated from later caller mutation.
func (o *Options) clone() Options {
	c := *o
	c.ModulesToScan = append([]string(nil), o.ModulesToScan...)
	if c.Metrics == nil {
		c.Metrics = observability.NoopMetrics{}
	}
	if c.Spans == nil {
		c.Spans = observability.NoopSpanManager{}
	}
	return c
}

// validate reports the first configuration problem in o.
func (o *Options) validate() error {
	if o.AutoDiscoverListeners && len(o.ModulesToScan) == 0 {
		return &ConfigurationError{Field: "ModulesToScan", Err: ErrNoModules}
	}
	return nil
}
