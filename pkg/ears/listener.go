package ears

import (
	"context"
	"reflect"
)

// Listener handles dispatched events for the event types it is registered
// against. A listener registered for several event types receives all of
// them through the same method and is expected to switch on the concrete type.
//
// The context is the one passed to Dispatch. Cancellation is advisory:
// the dispatcher never interrupts a running Handle, so long-running listeners
// should watch ctx.Done() themselves.
type Listener interface {
	Handle(ctx context.Context, event any) error
}

// TypeOf returns the event or listener type identifier for T.
//
//	ears.TypeOf[OrderPlaced]()   // event type
//	ears.TypeOf[*AuditListener]() // listener type
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// EventTypeOf returns the concrete dynamic type of event, which is the key
// used to look up its listeners. Returns nil for a nil event.
func EventTypeOf(event any) reflect.Type {
	return reflect.TypeOf(event)
}

// ListenerTypeOf returns the listener type identifier of l.
func ListenerTypeOf(l Listener) reflect.Type {
	return reflect.TypeOf(l)
}

var listenerInterface = reflect.TypeOf((*Listener)(nil)).Elem()
