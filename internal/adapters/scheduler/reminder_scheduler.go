package scheduler

import (
	"context"
	"fmt"
	"time"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/port"
	"saved-search-service/internal/core/port/usecases_port"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// ReminderScheduler по расписанию рассылает напоминания о встречах.
type ReminderScheduler struct {
	cron    *cron.Cron
	spec    string
	useCase usecases_port.SendDueRemindersUseCasePort
	logger  port.LoggerPort
	now     func() time.Time
}

// cronLogger пишет сообщения robfig/cron через LoggerPort.
type cronLogger struct {
	logger port.LoggerPort
}

func toFields(keysAndValues ...interface{}) port.Fields {
	fields := make(port.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return fields
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, toFields(keysAndValues...))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, err, toFields(keysAndValues...))
}

// NewReminderScheduler проверяет cron-выражение сразу, чтобы ошибка конфигурации была видна при старте.
func NewReminderScheduler(spec string, uc usecases_port.SendDueRemindersUseCasePort, logger port.LoggerPort) (*ReminderScheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid reminder cron spec %q: %w", spec, err)
	}

	schedLogger := logger.WithFields(port.Fields{"component": "ReminderScheduler"})
	cl := cronLogger{logger: schedLogger}
	return &ReminderScheduler{
		cron:    cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		spec:    spec,
		useCase: uc,
		logger:  schedLogger,
		now:     time.Now,
	}, nil
}

// Start регистрирует задачу и блокирует до отмены ctx.
func (s *ReminderScheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Reminder scheduler started", port.Fields{"spec": s.spec})

	<-ctx.Done()
	return nil
}

// RunOnce один проход рассылки напоминаний.
func (s *ReminderScheduler) RunOnce(ctx context.Context) {
	traceID := uuid.New().String()
	runLogger := s.logger.WithFields(port.Fields{"trace_id": traceID})
	runCtx := contextkeys.ContextWithTraceID(contextkeys.ContextWithLogger(ctx, runLogger), traceID)

	sent, err := s.useCase.Execute(runCtx, s.now())
	if err != nil {
		runLogger.Error("Reminder run finished with errors", err, port.Fields{"sent": sent})
		return
	}
	if sent > 0 {
		runLogger.Info("Reminders sent", port.Fields{"sent": sent})
	}
}

// Close останавливает расписание и ждет завершения текущего прохода.
func (s *ReminderScheduler) Close() error {
	<-s.cron.Stop().Done()
	s.logger.Info("Reminder scheduler stopped", nil)
	return nil
}
