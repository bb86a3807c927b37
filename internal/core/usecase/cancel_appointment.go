package usecase

import (
	"context"
	"fmt"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/port"
)

type CancelAppointmentUseCase struct {
	repo port.AppointmentRepositoryPort
}

func NewCancelAppointmentUseCase(repo port.AppointmentRepositoryPort) *CancelAppointmentUseCase {
	return &CancelAppointmentUseCase{repo: repo}
}

func (uc *CancelAppointmentUseCase) Execute(ctx context.Context, id, userID int64) (bool, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":       "CancelAppointment",
		"appointment_id": id,
		"user_id":        userID,
	})

	canceled, err := uc.repo.Cancel(ctx, id, userID)
	if err != nil {
		ucLogger.Error("Repository failed to cancel appointment", err, nil)
		return false, fmt.Errorf("failed to cancel appointment %d: %w", id, err)
	}

	ucLogger.Info("Cancel processed", port.Fields{"found": canceled})
	return canceled, nil
}
