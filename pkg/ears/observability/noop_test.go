package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics{}
	ctx := context.Background()

	t.Run("RecordDispatch does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordDispatch(ctx, "parallel", 1, time.Second, nil)
			m.RecordDispatch(ctx, "sequential", 0, 0, errors.New("x"))
		})
	})

	t.Run("RecordListenerInvocation does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordListenerInvocation(ctx, "E", "L", time.Millisecond, nil)
			m.RecordListenerInvocation(ctx, "E", "L", time.Millisecond, errors.New("x"))
		})
	})

	t.Run("RecordRegistration does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordRegistration(ctx, "E")
		})
	})
}

func TestNoopSpanManager(t *testing.T) {
	sm := NoopSpanManager{}
	ctx := context.Background()

	t.Run("StartDispatchSpan returns context unchanged", func(t *testing.T) {
		newCtx, span := sm.StartDispatchSpan(ctx, "d-1", "parallel", 1)
		assert.Equal(t, ctx, newCtx)
		assert.NotNil(t, span)
		assert.False(t, span.IsRecording())
	})

	t.Run("StartListenerSpan returns context unchanged", func(t *testing.T) {
		newCtx, span := sm.StartListenerSpan(ctx, "E", "L")
		assert.Equal(t, ctx, newCtx)
		assert.NotNil(t, span)
	})

	t.Run("EndSpanWithError and AddSpanEvent do not panic", func(t *testing.T) {
		_, span := sm.StartListenerSpan(ctx, "E", "L")
		assert.NotPanics(t, func() {
			sm.EndSpanWithError(span, errors.New("x"))
			sm.AddSpanEvent(ctx, "event", attribute.String("k", "v"))
		})
	})
}
