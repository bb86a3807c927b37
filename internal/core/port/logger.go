package port

// Fields структурированные данные для записи в лог.
type Fields map[string]interface{}

// LoggerPort контракт логирования, от которого зависит ядро.
type LoggerPort interface {
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	// Error записывает ошибку вместе с объектом error (может быть nil).
	Error(msg string, err error, fields Fields)
	Debug(msg string, fields Fields)

	// WithFields возвращает логгер с добавленным контекстом (trace_id, use_case и т.п.).
	WithFields(fields Fields) LoggerPort
}
