package usecase

import (
	"context"
	"fmt"
	"time"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"
)

type RejectPostUseCase struct {
	posts         port.PostRepositoryPort
	notifications port.NotificationRepositoryPort
	notifier      port.NotifierPort
	now           func() time.Time
}

func NewRejectPostUseCase(posts port.PostRepositoryPort, notifications port.NotificationRepositoryPort, notifier port.NotifierPort) *RejectPostUseCase {
	return &RejectPostUseCase{posts: posts, notifications: notifications, notifier: notifier, now: time.Now}
}

func (uc *RejectPostUseCase) Execute(ctx context.Context, postID int64) (*domain.Post, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "RejectPost",
		"post_id":  postID,
	})
	ucLogger.Info("Use case started", nil)

	post, err := uc.posts.GetByID(ctx, postID)
	if err != nil {
		ucLogger.Warn("Failed to load post for rejection", port.Fields{"error": err.Error()})
		return nil, err
	}

	if err := uc.posts.UpdateModeration(ctx, postID, domain.PostRejected, nil); err != nil {
		ucLogger.Error("Repository failed to reject post", err, nil)
		return nil, fmt.Errorf("failed to reject post %d: %w", postID, err)
	}
	post.Status = domain.PostRejected

	rejected := domain.NewPostRejectedNotification(post, uc.now())
	if err := uc.notifications.Create(ctx, &rejected); err != nil {
		ucLogger.Error("Failed to save rejection notification", err, nil)
	} else {
		deliver(ctx, uc.notifier, ucLogger, domain.NotificationEvent{Type: domain.EventNotificationCreated, Notification: rejected})
	}

	ucLogger.Info("Use case finished successfully", nil)
	return post, nil
}
