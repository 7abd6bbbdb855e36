package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records for testing.
type testHandler struct {
	buf   *bytes.Buffer
	level slog.Level
	attrs []slog.Attr
}

func newTestHandler() *testHandler {
	return &testHandler{
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for _, attr := range h.attrs {
		data[attr.Key] = attr.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})
	return json.NewEncoder(h.buf).Encode(data)
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := &testHandler{
		buf:   h.buf,
		level: h.level,
		attrs: make([]slog.Attr, len(h.attrs)+len(attrs)),
	}
	copy(newH.attrs, h.attrs)
	copy(newH.attrs[len(h.attrs):], attrs)
	return newH
}

func (h *testHandler) WithGroup(string) slog.Handler {
	return h
}

func (h *testHandler) getLastRecord() map[string]any {
	records := h.getAllRecords()
	if len(records) == 0 {
		return nil
	}
	return records[len(records)-1]
}

func (h *testHandler) getAllRecords() []map[string]any {
	var records []map[string]any
	for _, line := range bytes.Split(h.buf.Bytes(), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal(line, &m); err == nil {
			records = append(records, m)
		}
	}
	return records
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds dispatch_id", func(t *testing.T) {
		h := newTestHandler()
		enriched := EnrichLogger(slog.New(h), "d-123")
		enriched.Info("test message")

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "d-123", record["dispatch_id"])
		assert.Equal(t, "test message", record["msg"])
	})

	t.Run("nil logger returns nil", func(t *testing.T) {
		assert.Nil(t, EnrichLogger(nil, "d-123"))
	})
}

func TestLogListenerRegistered(t *testing.T) {
	h := newTestHandler()
	LogListenerRegistered(slog.New(h), "orders.Placed", "*audit.Listener")

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "listener registered", record["msg"])
	assert.Equal(t, "orders.Placed", record["event_type"])
	assert.Equal(t, "*audit.Listener", record["listener_type"])
}

func TestLogDiscovery(t *testing.T) {
	h := newTestHandler()
	LogDiscovery(slog.New(h), []string{"a", "b"}, 3)

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "DEBUG", record["level"])
	assert.Equal(t, "a,b", record["modules"])
	assert.Equal(t, float64(3), record["pairs"])
}

func TestLogDispatchLifecycle(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogDispatchStart(logger, "parallel", 2)
	LogListenerStart(logger, "E", "L")
	LogListenerComplete(logger, "E", "L", 1.5)
	LogDispatchComplete(logger, 12, 1)

	records := h.getAllRecords()
	require.Len(t, records, 4)

	assert.Equal(t, "dispatch starting", records[0]["msg"])
	assert.Equal(t, "parallel", records[0]["policy"])
	assert.Equal(t, float64(2), records[0]["events"])

	assert.Equal(t, "dispatching event to listener", records[1]["msg"])
	assert.Equal(t, "listener completed", records[2]["msg"])
	assert.Equal(t, 1.5, records[2]["duration_ms"])

	assert.Equal(t, "dispatch completed", records[3]["msg"])
	assert.Equal(t, "INFO", records[3]["level"])
	assert.Equal(t, float64(1), records[3]["invocations"])
}

func TestLogErrors(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogListenerError(logger, "E", "L", errors.New("boom"))
	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "boom", record["error"])

	LogDispatchError(logger, errors.New("batch failed"), 7)
	record = h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "dispatch failed", record["msg"])
	assert.Equal(t, "batch failed", record["error"])
	assert.Equal(t, float64(7), record["duration_ms"])
}

func TestLogHelpers_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		LogListenerRegistered(nil, "E", "L")
		LogDiscovery(nil, nil, 0)
		LogDispatchStart(nil, "sequential", 0)
		LogDispatchComplete(nil, 0, 0)
		LogDispatchError(nil, errors.New("x"), 0)
		LogListenerStart(nil, "E", "L")
		LogListenerComplete(nil, "E", "L", 0)
		LogListenerError(nil, "E", "L", errors.New("x"))
	})
}
