// Package earsfx wires an ears.Dispatcher into a go.uber.org/fx application.
//
// Listener constructors found by ears.Scan, plus any passed to
// WithListeners, are provided to the container so their parameters are
// injected like any other fx constructor. The module then provides an
// ears.Resolver backed by those listeners and a *ears.Dispatcher:
//
//	app := fx.New(
//	    fx.Provide(NewOrderStore),
//	    earsfx.Module(ears.DefaultOptions()),
//	    fx.Invoke(func(d *ears.Dispatcher) { ... }),
//	)
//
// fx builds each value once, so every resolution of a listener type returns
// the same instance.
package earsfx

import (
	"fmt"
	"log/slog"
	"reflect"

	"go.uber.org/fx"

	"github.com/randalmurphal/ears/pkg/ears"
)

// Option configures Module.
type Option func(*settings)

type settings struct {
	constructors    []any
	containerLogger bool
}

// WithListeners adds listener constructors to the container in addition to
// the discovered ones. Each must satisfy ears.ConstructedListener. Adding
// a constructor does not register its listener for any event type.
func WithListeners(constructors ...any) Option {
	return func(s *settings) {
		s.constructors = append(s.constructors, constructors...)
	}
}

// WithContainerLogger makes the dispatcher log to the *slog.Logger provided
// by the application when opts.Logger is nil. The logger is optional; if
// the container has none, logging stays disabled.
func WithContainerLogger() Option {
	return func(s *settings) {
		s.containerLogger = true
	}
}

var resolverType = reflect.TypeOf((*ears.Resolver)(nil)).Elem()

// Module returns the fx module providing ears.Resolver and *ears.Dispatcher.
//
// The modules in opts.ModulesToScan are scanned whatever the value of
// opts.AutoDiscoverListeners, so discovered listeners can always be
// resolved; registration still follows the option. Invalid options surface
// as a *ears.ConfigurationError when the dispatcher is constructed, which
// fails the application.
func Module(opts *ears.Options, options ...Option) fx.Option {
	var s settings
	for _, o := range options {
		o(&s)
	}

	var constructors []any
	if opts != nil && len(opts.ModulesToScan) > 0 {
		for _, d := range ears.Scan(opts.ModulesToScan...) {
			constructors = append(constructors, d.Constructor)
		}
	}
	constructors = append(constructors, s.constructors...)

	listenerTypes, unique, err := dedupe(constructors)
	if err != nil {
		return fx.Error(fmt.Errorf("earsfx: %w", err))
	}

	provides := make([]fx.Option, 0, len(unique)+2)
	for _, ctor := range unique {
		provides = append(provides, fx.Provide(ctor))
	}
	provides = append(provides,
		fx.Provide(resolverConstructor(listenerTypes)),
		fx.Provide(dispatcherConstructor(opts, s.containerLogger)),
	)
	return fx.Module("ears", provides...)
}

// dedupe validates constructors and keeps the first one per listener type.
func dedupe(constructors []any) ([]reflect.Type, []any, error) {
	seen := make(map[reflect.Type]struct{}, len(constructors))
	var types []reflect.Type
	var unique []any
	for _, ctor := range constructors {
		lt, err := ears.ConstructedListener(ctor)
		if err != nil {
			return nil, nil, err
		}
		if _, ok := seen[lt]; ok {
			continue
		}
		seen[lt] = struct{}{}
		types = append(types, lt)
		unique = append(unique, ctor)
	}
	return types, unique, nil
}

// resolverConstructor builds a constructor taking every listener type as a
// parameter and returning an ears.Resolver over them. dig reads the
// parameter list by reflection, so the function is made at run time.
func resolverConstructor(listenerTypes []reflect.Type) any {
	fnType := reflect.FuncOf(listenerTypes, []reflect.Type{resolverType}, false)
	fn := reflect.MakeFunc(fnType, func(args []reflect.Value) []reflect.Value {
		built := make(map[reflect.Type]ears.Listener, len(args))
		for i, arg := range args {
			l, _ := arg.Interface().(ears.Listener)
			built[listenerTypes[i]] = l
		}

		var r ears.Resolver = ears.ResolverFunc(func(lt reflect.Type) (ears.Listener, error) {
			l, ok := built[lt]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ears.ErrListenerNotRegistered, lt)
			}
			return l, nil
		})
		out := reflect.New(resolverType).Elem()
		out.Set(reflect.ValueOf(r))
		return []reflect.Value{out}
	})
	return fn.Interface()
}

type dispatcherParams struct {
	fx.In

	Resolver ears.Resolver
	Logger   *slog.Logger `optional:"true"`
}

func dispatcherConstructor(opts *ears.Options, containerLogger bool) func(dispatcherParams) (*ears.Dispatcher, error) {
	return func(p dispatcherParams) (*ears.Dispatcher, error) {
		if opts != nil && containerLogger && opts.Logger == nil && p.Logger != nil {
			withLogger := *opts
			withLogger.Logger = p.Logger
			return ears.New(&withLogger, p.Resolver)
		}
		return ears.New(opts, p.Resolver)
	}
}
