package usecase

import (
	"context"
	"fmt"
	"time"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"
	"saved-search-service/internal/core/port/usecases_port"
)

// ApprovePostUseCase публикует объявление после модерации и запускает рассылку по сохраненным поискам.
type ApprovePostUseCase struct {
	posts         port.PostRepositoryPort
	notifications port.NotificationRepositoryPort
	notifier      port.NotifierPort
	matcher       usecases_port.NotifyMatchingSearchesUseCasePort
	now           func() time.Time
}

func NewApprovePostUseCase(
	posts port.PostRepositoryPort,
	notifications port.NotificationRepositoryPort,
	notifier port.NotifierPort,
	matcher usecases_port.NotifyMatchingSearchesUseCasePort,
) *ApprovePostUseCase {
	return &ApprovePostUseCase{
		posts:         posts,
		notifications: notifications,
		notifier:      notifier,
		matcher:       matcher,
		now:           time.Now,
	}
}

func (uc *ApprovePostUseCase) Execute(ctx context.Context, postID int64) (*domain.Post, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "ApprovePost",
		"post_id":  postID,
	})
	ucLogger.Info("Use case started", nil)

	post, err := uc.posts.GetByID(ctx, postID)
	if err != nil {
		ucLogger.Warn("Failed to load post for approval", port.Fields{"error": err.Error()})
		return nil, err
	}

	role, err := uc.posts.GetOwnerRole(ctx, post.UserID)
	if err != nil {
		ucLogger.Error("Repository failed to load owner role", err, port.Fields{"owner_id": post.UserID})
		return nil, fmt.Errorf("failed to load owner role: %w", err)
	}

	now := uc.now().UTC()
	expiry := domain.ExpiryForRole(role, now)
	if err := uc.posts.UpdateModeration(ctx, postID, domain.PostActive, &expiry); err != nil {
		ucLogger.Error("Repository failed to activate post", err, nil)
		return nil, fmt.Errorf("failed to approve post %d: %w", postID, err)
	}
	post.Status = domain.PostActive
	post.ExpiryDate = &expiry

	// дальше только побочные эффекты: одобрение уже сохранено
	approved := domain.NewPostApprovedNotification(post, now)
	if err := uc.notifications.Create(ctx, &approved); err != nil {
		ucLogger.Error("Failed to save approval notification", err, nil)
	} else {
		deliver(ctx, uc.notifier, ucLogger, domain.NotificationEvent{Type: domain.EventNotificationCreated, Notification: approved})
	}

	if err := uc.matcher.Execute(ctx, postID); err != nil {
		ucLogger.Error("Saved search notifications failed after approval", err, nil)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"owner_role": role, "expiry_date": expiry})
	return post, nil
}
