package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, InitWithConfig(LogConfig{Level: "DEBUG", Format: "json", Output: &buf}))
	t.Cleanup(func() { _ = InitWithConfig(LogConfig{Level: "INFO", Format: "text"}) })
	return &buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var m map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &m))
	return m
}

func TestSpansAddTraceFields(t *testing.T) {
	logs := captureLogs(t)
	var spans bytes.Buffer
	require.NoError(t, InitTracingWithConfig(TraceConfig{Enabled: true, Version: "test", Output: &spans}))
	t.Cleanup(func() { _ = InitTracingWithConfig(TraceConfig{}) })

	ctx, span := StartSpan(context.Background(), "chat.request")
	require.True(t, span.SpanContext().IsValid())
	Info(ctx, "inside span")
	span.End()

	line := lastLine(t, logs)
	assert.Equal(t, span.SpanContext().TraceID().String(), line["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), line["span_id"])

	require.NoError(t, ShutdownTracing(context.Background()))
	assert.Contains(t, spans.String(), "chat.request")
	assert.Contains(t, spans.String(), serviceName)
}

func TestTracingOffLeavesContextAlone(t *testing.T) {
	logs := captureLogs(t)
	require.NoError(t, InitTracingWithConfig(TraceConfig{}))

	ctx := context.Background()
	got, span := StartSpan(ctx, "noop")
	assert.Equal(t, ctx, got)
	assert.False(t, span.SpanContext().IsValid())

	Info(got, "no span")
	line := lastLine(t, logs)
	assert.NotContains(t, line, "trace_id")
	assert.NoError(t, ShutdownTracing(ctx))
}

func TestFetchLevelFollowsOutcome(t *testing.T) {
	logs := captureLogs(t)

	Fetch(context.Background(), "BTCUSDT", true)
	assert.Equal(t, "INFO", lastLine(t, logs)["level"])

	Fetch(context.Background(), "FOOUSDT", false, "error", "HTTP 400")
	line := lastLine(t, logs)
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "FOOUSDT", line["symbol"])
	assert.Equal(t, "FETCH", line["type"])
}
