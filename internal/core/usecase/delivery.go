package usecase

import (
	"context"
	"fmt"

	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"
)

// deliver вызывает хук доставки. Ошибки и паники доставки только логируются:
// уведомление уже сохранено, и вызывающая операция должна завершиться успешно.
func deliver(ctx context.Context, notifier port.NotifierPort, logger port.LoggerPort, event domain.NotificationEvent) {
	if notifier == nil {
		return
	}
	fields := port.Fields{
		"event_type":      string(event.Type),
		"notification_id": event.Notification.ID,
		"user_id":         event.Notification.UserID,
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Notification delivery panicked", fmt.Errorf("panic: %v", r), fields)
		}
	}()

	if err := notifier.Notify(ctx, event); err != nil {
		logger.Error("Notification delivery failed, continuing", err, fields)
		return
	}
	logger.Debug("Notification delivered", fields)
}
