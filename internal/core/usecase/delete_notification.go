package usecase

import (
	"context"
	"fmt"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/port"
)

type DeleteNotificationUseCase struct {
	repo port.NotificationRepositoryPort
}

func NewDeleteNotificationUseCase(repo port.NotificationRepositoryPort) *DeleteNotificationUseCase {
	return &DeleteNotificationUseCase{repo: repo}
}

func (uc *DeleteNotificationUseCase) Execute(ctx context.Context, id, userID int64) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":        "DeleteNotification",
		"notification_id": id,
		"user_id":         userID,
	})

	if _, err := loadOwnedNotification(ctx, uc.repo, id, userID); err != nil {
		ucLogger.Warn("Notification is not accessible", port.Fields{"error": err.Error()})
		return err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		ucLogger.Error("Repository failed to delete notification", err, nil)
		return fmt.Errorf("failed to delete notification %d: %w", id, err)
	}

	ucLogger.Info("Notification deleted", nil)
	return nil
}
