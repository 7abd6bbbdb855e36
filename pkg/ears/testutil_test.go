package ears

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test event types used across tests

// greeting is the event used by the messaging scenarios.
type greeting struct {
	Text string
}

// ping is a second, unrelated event type.
type ping struct {
	N int
}

// collector records handled events in order.
type collector struct {
	mu       sync.Mutex
	messages []string
}

func (c *collector) add(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
}

func (c *collector) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.messages...)
}

// Helper listeners

// firstListener records greetings prefixed with "first:".
type firstListener struct {
	out *collector
}

func (l *firstListener) Handle(_ context.Context, event any) error {
	switch e := event.(type) {
	case greeting:
		l.out.add("first:" + e.Text)
	case ping:
		l.out.add(fmt.Sprintf("first:ping %d", e.N))
	}
	return nil
}

// secondListener records greetings prefixed with "second:".
type secondListener struct {
	out *collector
}

func (l *secondListener) Handle(_ context.Context, event any) error {
	if e, ok := event.(greeting); ok {
		l.out.add("second:" + e.Text)
	}
	return nil
}

// failingListener returns err from every Handle call.
type failingListener struct {
	err error
}

func (l *failingListener) Handle(context.Context, any) error {
	return l.err
}

// panickingListener panics from every Handle call.
type panickingListener struct{}

func (panickingListener) Handle(context.Context, any) error {
	panic("listener exploded")
}

// funcListener runs fn from Handle.
type funcListener struct {
	fn func(ctx context.Context, event any) error
}

func (l *funcListener) Handle(ctx context.Context, event any) error {
	return l.fn(ctx, event)
}

// instances returns a resolver that always hands out the given listeners.
func instances(listeners ...Listener) *FactoryResolver {
	r := NewFactoryResolver()
	for _, l := range listeners {
		r.RegisterInstance(l)
	}
	return r
}

// manualOptions returns options with auto-discovery disabled.
func manualOptions(parallel bool) *Options {
	return &Options{ParallelDispatch: parallel}
}

// newTestDispatcher creates a dispatcher or fails the test.
func newTestDispatcher(t testing.TB, opts *Options, resolver Resolver) *Dispatcher {
	t.Helper()
	d, err := New(opts, resolver)
	require.NoError(t, err)
	return d
}

// isolateCatalog restores the discovery table when the test ends.
func isolateCatalog(t testing.TB) {
	t.Helper()
	catalog.mu.RLock()
	saved := append([]Discovered(nil), catalog.entries...)
	catalog.mu.RUnlock()

	t.Cleanup(func() {
		catalog.mu.Lock()
		catalog.entries = saved
		catalog.mu.Unlock()
	})
}
