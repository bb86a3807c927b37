package usecase

import (
	"context"
	"fmt"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"
)

type ListAppointmentsUseCase struct {
	repo port.AppointmentRepositoryPort
}

func NewListAppointmentsUseCase(repo port.AppointmentRepositoryPort) *ListAppointmentsUseCase {
	return &ListAppointmentsUseCase{repo: repo}
}

func (uc *ListAppointmentsUseCase) Execute(ctx context.Context, userID int64) ([]domain.Appointment, error) {
	appointments, err := uc.repo.ListActiveByUser(ctx, userID)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Repository failed to list appointments", err, port.Fields{
			"use_case": "ListAppointments",
			"user_id":  userID,
		})
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	if appointments == nil {
		appointments = []domain.Appointment{}
	}
	return appointments, nil
}
