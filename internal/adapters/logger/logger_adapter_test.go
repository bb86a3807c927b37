package logger_adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"saved-search-service/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogAdapter_WritesFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelDebug, IsJSON: true})

	logger.WithFields(port.Fields{"use_case": "CreateSavedSearch"}).
		Error("save failed", errors.New("db down"), port.Fields{"owner_id": 7})

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "save failed", record["msg"])
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "CreateSavedSearch", record["use_case"])
	assert.Equal(t, float64(7), record["owner_id"])
	assert.Equal(t, "db down", record["error"])
}

func TestSlogAdapter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelWarn})

	logger.Debug("hidden", nil)
	logger.Info("hidden too", nil)
	logger.Warn("shown", nil)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestSlogAdapter_StableFieldOrder(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf})

	logger.Info("ordered", port.Fields{"b": 2, "a": 1, "c": 3})

	out := buf.String()
	assert.Less(t, strings.Index(out, "a=1"), strings.Index(out, "b=2"))
	assert.Less(t, strings.Index(out, "b=2"), strings.Index(out, "c=3"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

type fakeFluent struct {
	tags     []string
	messages []map[string]interface{}
}

func (f *fakeFluent) Post(tag string, message interface{}) error {
	f.tags = append(f.tags, tag)
	f.messages = append(f.messages, message.(map[string]interface{}))
	return nil
}

func (f *fakeFluent) Close() error { return nil }

func TestFluentLoggerAdapter_PostsMergedFields(t *testing.T) {
	client := &fakeFluent{}
	logger := newFluentLoggerAdapter(client, slog.LevelInfo)

	logger.Debug("dropped", nil)
	logger.WithFields(port.Fields{"trace_id": "t-1"}).Error("boom", errors.New("cause"), port.Fields{"post_id": int64(5)})

	require.Len(t, client.messages, 1)
	assert.Equal(t, "ERROR", client.tags[0])
	msg := client.messages[0]
	assert.Equal(t, "boom", msg["message"])
	assert.Equal(t, "t-1", msg["trace_id"])
	assert.Equal(t, int64(5), msg["post_id"])
	assert.Equal(t, "cause", msg["error"])
	assert.NotEmpty(t, msg["timestamp"])
}

func TestFluentLoggerAdapter_WithFieldsDoesNotMutateParent(t *testing.T) {
	client := &fakeFluent{}
	parent := newFluentLoggerAdapter(client, slog.LevelInfo)

	_ = parent.WithFields(port.Fields{"child": true})
	parent.Info("parent", nil)

	require.Len(t, client.messages, 1)
	_, has := client.messages[0]["child"]
	assert.False(t, has)
}

type recordingLogger struct {
	entries *[]string
	fields  port.Fields
}

func (r recordingLogger) Info(msg string, _ port.Fields) {
	*r.entries = append(*r.entries, "info:"+msg)
}

func (r recordingLogger) Warn(msg string, _ port.Fields) {
	*r.entries = append(*r.entries, "warn:"+msg)
}

func (r recordingLogger) Error(msg string, _ error, _ port.Fields) {
	*r.entries = append(*r.entries, "error:"+msg)
}

func (r recordingLogger) Debug(msg string, _ port.Fields) {
	*r.entries = append(*r.entries, "debug:"+msg)
}

func (r recordingLogger) WithFields(f port.Fields) port.LoggerPort {
	return recordingLogger{entries: r.entries, fields: f}
}

func TestMultiLoggerAdapter_FansOut(t *testing.T) {
	var first, second []string
	multi, err := NewMultiLoggerAdapter(recordingLogger{entries: &first}, nil, recordingLogger{entries: &second})
	require.NoError(t, err)

	multi.WithFields(port.Fields{"k": "v"}).Warn("careful", nil)

	assert.Equal(t, []string{"warn:careful"}, first)
	assert.Equal(t, []string{"warn:careful"}, second)
}

func TestMultiLoggerAdapter_RequiresLogger(t *testing.T) {
	_, err := NewMultiLoggerAdapter(nil)
	assert.Error(t, err)
}
