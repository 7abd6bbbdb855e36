package ears

import (
	"fmt"
	"reflect"
	"sync"
)

// Resolver turns a listener type into a live listener instance.
// Dispatcher calls Resolve once per (event, listener) invocation; whether
// that yields a fresh instance or a shared one is up to the resolver.
type Resolver interface {
	Resolve(listenerType reflect.Type) (Listener, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(listenerType reflect.Type) (Listener, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(listenerType reflect.Type) (Listener, error) {
	return f(listenerType)
}

// Factory builds a listener instance.
type Factory func() (Listener, error)

// FactoryResolver is a Resolver backed by a table of factories keyed by
// listener type. It is safe for concurrent use.
type FactoryResolver struct {
	mu        sync.RWMutex
	factories map[reflect.Type]Factory
}

// Compile-time interface check.
var _ Resolver = (*FactoryResolver)(nil)

// NewFactoryResolver creates an empty FactoryResolver.
func NewFactoryResolver() *FactoryResolver {
	return &FactoryResolver{
		factories: make(map[reflect.Type]Factory),
	}
}

// Register sets the factory for listenerType, replacing any previous one.
func (r *FactoryResolver) Register(listenerType reflect.Type, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[listenerType] = factory
}

// RegisterInstance makes every resolution of l's type return l itself.
func (r *FactoryResolver) RegisterInstance(l Listener) {
	r.Register(ListenerTypeOf(l), func() (Listener, error) {
		return l, nil
	})
}

// RegisterConstructor registers a discovery constructor that takes no
// arguments. The constructor is called on every resolution, so each
// dispatch gets a fresh listener.
func (r *FactoryResolver) RegisterConstructor(constructor any) error {
	lt, err := ConstructedListener(constructor)
	if err != nil {
		return err
	}
	fv := reflect.ValueOf(constructor)
	if fv.Type().NumIn() != 0 {
		return fmt.Errorf("constructor %s takes arguments; use a container resolver", fv.Type())
	}

	r.Register(lt, func() (Listener, error) {
		out := fv.Call(nil)
		if len(out) == 2 && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		l, _ := out[0].Interface().(Listener)
		if isNilListener(l) {
			return nil, ErrNilListener
		}
		return l, nil
	})
	return nil
}

// Has returns true if a factory is registered for listenerType.
func (r *FactoryResolver) Has(listenerType reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[listenerType]
	return ok
}

// Resolve implements Resolver.
func (r *FactoryResolver) Resolve(listenerType reflect.Type) (Listener, error) {
	r.mu.RLock()
	factory, ok := r.factories[listenerType]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrListenerNotRegistered, typeName(listenerType))
	}
	return factory()
}
