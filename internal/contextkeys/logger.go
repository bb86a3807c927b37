package contextkeys

import (
	"context"

	"saved-search-service/internal/core/port"
)

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// ContextWithLogger помещает логгер в контекст.
func ContextWithLogger(ctx context.Context, logger port.LoggerPort) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext извлекает логгер из контекста.
// Без логгера возвращается no-op реализация, чтобы вызывающему не нужно было проверять nil.
func LoggerFromContext(ctx context.Context) port.LoggerPort {
	if logger, ok := ctx.Value(loggerKey).(port.LoggerPort); ok && logger != nil {
		return logger
	}
	return NoopLogger{}
}

// NoopLogger ничего не пишет. Используется как заглушка и в тестах.
type NoopLogger struct{}

func (NoopLogger) Info(string, port.Fields)                 {}
func (NoopLogger) Warn(string, port.Fields)                 {}
func (NoopLogger) Error(string, error, port.Fields)         {}
func (NoopLogger) Debug(string, port.Fields)                {}
func (n NoopLogger) WithFields(port.Fields) port.LoggerPort { return n }
