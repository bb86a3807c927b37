package usecases_port

import (
	"context"

	"saved-search-service/internal/core/domain"
)

type ListNotificationsUseCasePort interface {
	Execute(ctx context.Context, userID int64, limit, offset int) (*domain.PaginatedNotifications, error)
}

type MarkNotificationReadUseCasePort interface {
	Execute(ctx context.Context, id, userID int64) error
}

type DeleteNotificationUseCasePort interface {
	Execute(ctx context.Context, id, userID int64) error
}
