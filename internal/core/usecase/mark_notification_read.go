package usecase

import (
	"context"
	"fmt"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"
)

type MarkNotificationReadUseCase struct {
	repo     port.NotificationRepositoryPort
	notifier port.NotifierPort
}

func NewMarkNotificationReadUseCase(repo port.NotificationRepositoryPort, notifier port.NotifierPort) *MarkNotificationReadUseCase {
	return &MarkNotificationReadUseCase{repo: repo, notifier: notifier}
}

// Execute отличает отсутствующее уведомление (ErrNotificationNotFound) от чужого (ErrForbidden).
func (uc *MarkNotificationReadUseCase) Execute(ctx context.Context, id, userID int64) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":        "MarkNotificationRead",
		"notification_id": id,
		"user_id":         userID,
	})

	n, err := loadOwnedNotification(ctx, uc.repo, id, userID)
	if err != nil {
		ucLogger.Warn("Notification is not accessible", port.Fields{"error": err.Error()})
		return err
	}
	if n.IsRead {
		return nil
	}

	if err := uc.repo.MarkRead(ctx, id); err != nil {
		ucLogger.Error("Repository failed to mark notification as read", err, nil)
		return fmt.Errorf("failed to mark notification %d as read: %w", id, err)
	}
	n.IsRead = true

	deliver(ctx, uc.notifier, ucLogger, domain.NotificationEvent{Type: domain.EventNotificationRead, Notification: *n})
	ucLogger.Info("Notification marked as read", nil)
	return nil
}

func loadOwnedNotification(ctx context.Context, repo port.NotificationRepositoryPort, id, userID int64) (*domain.Notification, error) {
	n, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, fmt.Errorf("notification %d: %w", id, domain.ErrForbidden)
	}
	return n, nil
}
