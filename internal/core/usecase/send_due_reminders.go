package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"
)

const reminderBatchSize = 200

// SendDueRemindersUseCase рассылает напоминания о встречах, срок которых подошел.
type SendDueRemindersUseCase struct {
	repo     port.AppointmentRepositoryPort
	notifier port.NotifierPort
}

func NewSendDueRemindersUseCase(repo port.AppointmentRepositoryPort, notifier port.NotifierPort) *SendDueRemindersUseCase {
	return &SendDueRemindersUseCase{repo: repo, notifier: notifier}
}

// Execute обрабатывает одну пачку due-встреч. Ошибка по одной встрече не останавливает остальные,
// все такие ошибки возвращаются вместе.
func (uc *SendDueRemindersUseCase) Execute(ctx context.Context, now time.Time) (int, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "SendDueReminders",
	})

	due, err := uc.repo.FindDue(ctx, now, reminderBatchSize)
	if err != nil {
		ucLogger.Error("Repository failed to find due appointments", err, nil)
		return 0, fmt.Errorf("failed to find due appointments: %w", err)
	}
	if len(due) == 0 {
		ucLogger.Debug("No due appointments", nil)
		return 0, nil
	}

	sent := 0
	var errs []error
	for i := range due {
		a := &due[i]
		if !a.ReminderDue(now) {
			continue
		}

		reminder := domain.NewReminderNotification(a, now)
		marked, err := uc.repo.MarkNotified(ctx, a.ID, &reminder)
		if err != nil {
			ucLogger.Error("Failed to mark appointment as notified", err, port.Fields{"appointment_id": a.ID})
			errs = append(errs, fmt.Errorf("appointment %d: %w", a.ID, err))
			continue
		}
		if !marked {
			// обработана параллельным запуском или отменена
			continue
		}

		sent++
		deliver(ctx, uc.notifier, ucLogger, domain.NotificationEvent{Type: domain.EventNotificationCreated, Notification: reminder})
	}

	ucLogger.Info("Reminders processed", port.Fields{"due": len(due), "sent": sent, "failed": len(errs)})
	return sent, errors.Join(errs...)
}
