package usecase

import (
	"context"
	"fmt"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"
)

// ListAllSavedSearchesUseCase все поиски, включая удаленные.
type ListAllSavedSearchesUseCase struct {
	repo port.SavedSearchRepositoryPort
}

func NewListAllSavedSearchesUseCase(repo port.SavedSearchRepositoryPort) *ListAllSavedSearchesUseCase {
	return &ListAllSavedSearchesUseCase{repo: repo}
}

func (uc *ListAllSavedSearchesUseCase) Execute(ctx context.Context, limit, offset int) ([]domain.SavedSearch, error) {
	limit, offset = normalizePage(limit, offset)
	searches, err := uc.repo.ListAll(ctx, limit, offset)
	if err != nil {
		logAdminListFailure(ctx, "ListAllSavedSearches", err)
		return nil, fmt.Errorf("failed to list all saved searches: %w", err)
	}
	if searches == nil {
		searches = []domain.SavedSearch{}
	}
	return searches, nil
}

type ListAllNotificationsUseCase struct {
	repo port.NotificationRepositoryPort
}

func NewListAllNotificationsUseCase(repo port.NotificationRepositoryPort) *ListAllNotificationsUseCase {
	return &ListAllNotificationsUseCase{repo: repo}
}

func (uc *ListAllNotificationsUseCase) Execute(ctx context.Context, limit, offset int) ([]domain.Notification, error) {
	limit, offset = normalizePage(limit, offset)
	notifications, err := uc.repo.ListAll(ctx, limit, offset)
	if err != nil {
		logAdminListFailure(ctx, "ListAllNotifications", err)
		return nil, fmt.Errorf("failed to list all notifications: %w", err)
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	return notifications, nil
}

// ListAllAppointmentsUseCase все встречи, включая отмененные.
type ListAllAppointmentsUseCase struct {
	repo port.AppointmentRepositoryPort
}

func NewListAllAppointmentsUseCase(repo port.AppointmentRepositoryPort) *ListAllAppointmentsUseCase {
	return &ListAllAppointmentsUseCase{repo: repo}
}

func (uc *ListAllAppointmentsUseCase) Execute(ctx context.Context, limit, offset int) ([]domain.Appointment, error) {
	limit, offset = normalizePage(limit, offset)
	appointments, err := uc.repo.ListAll(ctx, limit, offset)
	if err != nil {
		logAdminListFailure(ctx, "ListAllAppointments", err)
		return nil, fmt.Errorf("failed to list all appointments: %w", err)
	}
	if appointments == nil {
		appointments = []domain.Appointment{}
	}
	return appointments, nil
}

func logAdminListFailure(ctx context.Context, useCase string, err error) {
	contextkeys.LoggerFromContext(ctx).Error("Repository failed to list records", err, port.Fields{"use_case": useCase})
}
