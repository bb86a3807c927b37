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

// NotifyMatchingSearchesUseCase создает уведомления владельцам сохраненных поисков,
// в область которых попало только что активированное объявление.
type NotifyMatchingSearchesUseCase struct {
	posts         port.PostRepositoryPort
	searches      port.SavedSearchRepositoryPort
	notifications port.NotificationRepositoryPort
	notifier      port.NotifierPort
	now           func() time.Time
}

func NewNotifyMatchingSearchesUseCase(
	posts port.PostRepositoryPort,
	searches port.SavedSearchRepositoryPort,
	notifications port.NotificationRepositoryPort,
	notifier port.NotifierPort,
) *NotifyMatchingSearchesUseCase {
	return &NotifyMatchingSearchesUseCase{
		posts:         posts,
		searches:      searches,
		notifications: notifications,
		notifier:      notifier,
		now:           time.Now,
	}
}

// Execute идемпотентен: пара (поиск, объявление) получает не больше одного уведомления,
// даже при повторной доставке события или параллельных активациях.
// Ошибка сохранения возвращается, ошибки доставки только логируются.
func (uc *NotifyMatchingSearchesUseCase) Execute(ctx context.Context, postID int64) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "NotifyMatchingSearches",
		"post_id":  postID,
	})
	ucLogger.Info("Use case started", nil)

	post, err := uc.posts.GetByID(ctx, postID)
	if errors.Is(err, domain.ErrPostNotFound) {
		ucLogger.Warn("Post not found, nothing to match", nil)
		return nil
	}
	if err != nil {
		ucLogger.Error("Repository failed to load post", err, nil)
		return fmt.Errorf("failed to load post %d: %w", postID, err)
	}
	if post.Status != domain.PostActive || !post.HasCoordinates() {
		ucLogger.Info("Post is not active or has no coordinates, skipping", port.Fields{"status": string(post.Status)})
		return nil
	}

	searches, err := uc.searches.ListNotifiable(ctx, post.TransactionType)
	if err != nil {
		ucLogger.Error("Repository failed to list notifiable saved searches", err, nil)
		return fmt.Errorf("failed to list saved searches: %w", err)
	}

	now := uc.now()
	pending := make([]domain.Notification, 0)
	for i := range searches {
		if _, ok := searches[i].Match(post, now); ok {
			pending = append(pending, domain.NewSavedSearchMatchNotification(&searches[i], post, now))
		}
	}
	if len(pending) == 0 {
		ucLogger.Info("Use case finished: no saved search matched", port.Fields{"scanned": len(searches)})
		return nil
	}

	created, err := uc.notifications.CreateSavedSearchMatches(ctx, pending)
	if err != nil {
		ucLogger.Error("Repository failed to persist match notifications", err, port.Fields{"matched": len(pending)})
		return fmt.Errorf("failed to persist saved search notifications for post %d: %w", postID, err)
	}

	for _, n := range created {
		deliver(ctx, uc.notifier, ucLogger, domain.NotificationEvent{Type: domain.EventNotificationCreated, Notification: n})
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"scanned":          len(searches),
		"matched":          len(pending),
		"created":          len(created),
		"already_notified": len(pending) - len(created),
	})
	return nil
}
