package usecases_port

import (
	"context"

	"saved-search-service/internal/core/domain"
)

// Просмотр данных всех пользователей для администратора.

type ListAllSavedSearchesUseCasePort interface {
	Execute(ctx context.Context, limit, offset int) ([]domain.SavedSearch, error)
}

type ListAllNotificationsUseCasePort interface {
	Execute(ctx context.Context, limit, offset int) ([]domain.Notification, error)
}

type ListAllAppointmentsUseCasePort interface {
	Execute(ctx context.Context, limit, offset int) ([]domain.Appointment, error)
}
