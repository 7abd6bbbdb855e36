package ears

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors for construction.
var (
	// ErrNilOptions indicates New was called without options.
	ErrNilOptions = errors.New("options cannot be nil")

	// ErrNoModules indicates auto-discovery is enabled but no modules are configured.
	ErrNoModules = errors.New("no modules were configured")

	// ErrNilResolver indicates New was called without a resolver.
	ErrNilResolver = errors.New("resolver cannot be nil")
)

// Sentinel errors for registration and dispatch.
var (
	// ErrNilType indicates a nil event or listener type was registered.
	ErrNilType = errors.New("type cannot be nil")

	// ErrNilEvent indicates a nil value was passed to Dispatch.
	ErrNilEvent = errors.New("event cannot be nil")

	// ErrNilListener indicates a resolver returned no listener and no error.
	ErrNilListener = errors.New("resolver returned nil listener")

	// ErrListenerNotRegistered indicates the resolver has no factory for a listener type.
	ErrListenerNotRegistered = errors.New("listener type not registered")
)

// ConfigurationError is returned by New when the options cannot produce a
// Dispatcher. No Dispatcher is created when it is returned.
type ConfigurationError struct {
	// Field names the offending option, if any.
	Field string
	// Err is the underlying sentinel.
	Err error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("ears: invalid configuration: %v", e.Err)
	}
	return fmt.Sprintf("ears: invalid configuration: %s: %v", e.Field, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ResolutionError wraps a failure to obtain a listener instance.
type ResolutionError struct {
	// EventType is the type of the event being dispatched.
	EventType reflect.Type
	// ListenerType is the listener type that could not be resolved.
	ListenerType reflect.Type
	// Err is the resolver's error.
	Err error
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve listener %s for %s: %v", typeName(e.ListenerType), typeName(e.EventType), e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// ListenerExecutionError wraps an error returned (or a panic raised) by a
// listener's Handle method.
type ListenerExecutionError struct {
	// EventType is the type of the event being handled.
	EventType reflect.Type
	// ListenerType is the listener that failed.
	ListenerType reflect.Type
	// Err is the error returned by Handle, or a *PanicError.
	Err error
}

// Error implements the error interface.
func (e *ListenerExecutionError) Error() string {
	return fmt.Sprintf("listener %s handling %s: %v", typeName(e.ListenerType), typeName(e.EventType), e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ListenerExecutionError) Unwrap() error {
	return e.Err
}

// PanicError captures a panic raised inside Handle.
// It includes the stack trace for debugging.
type PanicError struct {
	// Value is the value passed to panic().
	Value any
	// Stack is the full stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
