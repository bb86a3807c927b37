package rabbitmq_adapter

import (
	"errors"
	"testing"

	"saved-search-service/internal/core/port"

	"github.com/stretchr/testify/assert"
)

type captureLogger struct {
	msgs   []string
	fields []port.Fields
	errs   []error
}

func (c *captureLogger) record(msg string, err error, fields port.Fields) {
	c.msgs = append(c.msgs, msg)
	c.errs = append(c.errs, err)
	c.fields = append(c.fields, fields)
}

func (c *captureLogger) Info(msg string, f port.Fields)             { c.record(msg, nil, f) }
func (c *captureLogger) Warn(msg string, f port.Fields)             { c.record(msg, nil, f) }
func (c *captureLogger) Debug(msg string, f port.Fields)            { c.record(msg, nil, f) }
func (c *captureLogger) Error(msg string, err error, f port.Fields) { c.record(msg, err, f) }
func (c *captureLogger) WithFields(port.Fields) port.LoggerPort     { return c }

func TestPkgLoggerBridge(t *testing.T) {
	capture := &captureLogger{}
	bridge := NewPkgLoggerBridge(capture)

	bridge.Info("connected", "queue", "q1", "workers", 4)
	bridge.Warn("odd", "dangling")
	boom := errors.New("boom")
	bridge.Error(boom, "failed", 17, "ignored", "tag", uint64(5))

	assert.Equal(t, []string{"connected", "odd", "failed"}, capture.msgs)
	assert.Equal(t, port.Fields{"queue": "q1", "workers": 4}, capture.fields[0])
	assert.Empty(t, capture.fields[1])
	assert.Equal(t, port.Fields{"tag": uint64(5)}, capture.fields[2])
	assert.Equal(t, boom, capture.errs[2])
}
