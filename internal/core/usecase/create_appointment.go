package usecase

import (
	"context"
	"fmt"
	"time"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"
)

type CreateAppointmentUseCase struct {
	repo port.AppointmentRepositoryPort
	now  func() time.Time
}

func NewCreateAppointmentUseCase(repo port.AppointmentRepositoryPort) *CreateAppointmentUseCase {
	return &CreateAppointmentUseCase{repo: repo, now: time.Now}
}

func (uc *CreateAppointmentUseCase) Execute(ctx context.Context, params domain.NewAppointmentParams) (*domain.Appointment, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "CreateAppointment",
		"user_id":  params.UserID,
	})
	ucLogger.Info("Use case started", nil)

	appointment, err := domain.NewAppointment(params, uc.now())
	if err != nil {
		ucLogger.Warn("Appointment rejected by validation", port.Fields{"reason": err.Error()})
		return nil, err
	}

	if err := uc.repo.Create(ctx, appointment); err != nil {
		ucLogger.Error("Repository failed to create appointment", err, nil)
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"appointment_id":   appointment.ID,
		"appointment_time": appointment.AppointmentTime,
	})
	return appointment, nil
}
