package ears

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"sync"
)

// Discovered is one (listener type, event type) pair found by Scan.
type Discovered struct {
	// Module is the package import path the listener was discovered in.
	Module string
	// Listener is the concrete listener type built by Constructor.
	Listener reflect.Type
	// Event is the event type the listener handles.
	Event reflect.Type
	// Constructor builds the listener. It is a func returning Listener or
	// (Listener, error); its parameters are dependencies supplied by a container.
	Constructor any
}

// catalog is the process-wide discovery table, filled from init functions.
var catalog struct {
	mu      sync.RWMutex
	entries []Discovered
}

// Discover records that the listener built by constructor handles each of
// the given event types. Call it from the init function of the package that
// defines the listener; that package becomes the listener's module.
//
//	func init() {
//	    ears.Discover(NewAuditListener, ears.TypeOf[OrderPlaced](), ears.TypeOf[OrderShipped]())
//	}
//
// Discover panics if constructor is not a func returning a concrete
// Listener (optionally with an error), or if no event types are given.
func Discover(constructor any, events ...reflect.Type) {
	DiscoverIn(callerModule(2), constructor, events...)
}

// DiscoverIn is like Discover but names the module explicitly.
func DiscoverIn(module string, constructor any, events ...reflect.Type) {
	listener, err := ConstructedListener(constructor)
	if err != nil {
		panic(fmt.Sprintf("ears: discover: %v", err))
	}
	if len(events) == 0 {
		panic(fmt.Sprintf("ears: discover: %s registered without event types", listener))
	}

	catalog.mu.Lock()
	defer catalog.mu.Unlock()
	for _, evt := range events {
		if evt == nil {
			panic(fmt.Sprintf("ears: discover: %s registered with nil event type", listener))
		}
		catalog.entries = append(catalog.entries, Discovered{
			Module:      module,
			Listener:    listener,
			Event:       evt,
			Constructor: constructor,
		})
	}
}

// Scan returns the discovered pairs belonging to modules, in the order they
// were recorded. A listener handling several event types yields one entry
// per event type.
func Scan(modules ...string) []Discovered {
	wanted := make(map[string]struct{}, len(modules))
	for _, m := range modules {
		wanted[m] = struct{}{}
	}

	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	var found []Discovered
	for _, d := range catalog.entries {
		if _, ok := wanted[d.Module]; ok {
			found = append(found, d)
		}
	}
	return found
}

var errorInterface = reflect.TypeOf((*error)(nil)).Elem()

// ConstructedListener validates a discovery constructor and returns the
// listener type it builds. Constructor parameters are not inspected.
func ConstructedListener(constructor any) (reflect.Type, error) {
	if constructor == nil {
		return nil, fmt.Errorf("constructor is nil")
	}
	ft := reflect.TypeOf(constructor)
	if ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("constructor must be a func, got %s", ft)
	}
	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != errorInterface {
			return nil, fmt.Errorf("constructor %s: second result must be error", ft)
		}
	default:
		return nil, fmt.Errorf("constructor %s must return a listener and optionally an error", ft)
	}

	lt := ft.Out(0)
	if lt.Kind() == reflect.Interface {
		return nil, fmt.Errorf("constructor %s must return a concrete type, not an interface", ft)
	}
	if !lt.Implements(listenerInterface) {
		return nil, fmt.Errorf("%s does not implement ears.Listener", lt)
	}
	return lt, nil
}

// callerModule returns the import path of the package whose function is
// skip frames above callerModule.
func callerModule(skip int) string {
	pcs := make([]uintptr, 1)
	if runtime.Callers(skip+1, pcs) == 0 {
		return ""
	}
	frame, _ := runtime.CallersFrames(pcs).Next()
	return packageOf(frame.Function)
}

// packageOf extracts the package path from a fully qualified function name
// such as "github.com/acme/shop/orders.init.0" or "example.com/a.(*T).M".
func packageOf(funcName string) string {
	slash := strings.LastIndex(funcName, "/")
	dot := strings.Index(funcName[slash+1:], ".")
	if dot < 0 {
		return funcName
	}
	// The linker escapes dots in the last path element.
	return strings.ReplaceAll(funcName[:slash+1+dot], "%2e", ".")
}
