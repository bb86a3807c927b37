package usecases_port

import (
	"context"
	"time"

	"saved-search-service/internal/core/domain"
)

type CreateAppointmentUseCasePort interface {
	Execute(ctx context.Context, params domain.NewAppointmentParams) (*domain.Appointment, error)
}

type ListAppointmentsUseCasePort interface {
	Execute(ctx context.Context, userID int64) ([]domain.Appointment, error)
}

type CancelAppointmentUseCasePort interface {
	Execute(ctx context.Context, id, userID int64) (bool, error)
}

type SendDueRemindersUseCasePort interface {
	// Execute возвращает число отправленных напоминаний.
	Execute(ctx context.Context, now time.Time) (int, error)
}
