package usecase

import (
	"context"
	"fmt"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// normalizePage подставляет размер страницы по умолчанию и ограничивает его сверху.
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

type ListNotificationsUseCase struct {
	repo port.NotificationRepositoryPort
}

func NewListNotificationsUseCase(repo port.NotificationRepositoryPort) *ListNotificationsUseCase {
	return &ListNotificationsUseCase{repo: repo}
}

func (uc *ListNotificationsUseCase) Execute(ctx context.Context, userID int64, limit, offset int) (*domain.PaginatedNotifications, error) {
	limit, offset = normalizePage(limit, offset)

	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "ListNotifications",
		"user_id":  userID,
		"limit":    limit,
		"offset":   offset,
	})

	page, err := uc.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		ucLogger.Error("Repository failed to list notifications", err, nil)
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	ucLogger.Debug("Notifications listed", port.Fields{"total": page.TotalCount, "unread": page.UnreadCount})
	return page, nil
}
