package postgres_adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const appointmentColumns = `id, user_id, title, description, appointment_time, reminder_minutes,
	is_notified, is_canceled, created_at`

type PostgresAppointmentRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAppointmentRepository(pool *pgxpool.Pool) (*PostgresAppointmentRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresAppointmentRepository{pool: pool}, nil
}

func (r *PostgresAppointmentRepository) Create(ctx context.Context, a *domain.Appointment) error {
	query := `
		INSERT INTO appointments (user_id, title, description, appointment_time, reminder_minutes, is_notified, is_canceled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		a.UserID, a.Title, a.Description, a.AppointmentTime, a.ReminderMinutes, a.IsNotified, a.IsCanceled, a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("failed to insert appointment: %w", err)
	}
	return nil
}

func (r *PostgresAppointmentRepository) ListActiveByUser(ctx context.Context, userID int64) ([]domain.Appointment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+appointmentColumns+` FROM appointments
		WHERE user_id = $1 AND is_canceled = false
		ORDER BY appointment_time, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	return collectAppointments(rows)
}

func (r *PostgresAppointmentRepository) Cancel(ctx context.Context, id, userID int64) (bool, error) {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE appointments SET is_canceled = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to cancel appointment %d: %w", id, err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

func (r *PostgresAppointmentRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]domain.Appointment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+appointmentColumns+` FROM appointments
		WHERE is_notified = false AND is_canceled = false
			AND appointment_time - make_interval(mins => reminder_minutes) <= $1
		ORDER BY appointment_time, id
		LIMIT $2`, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query due appointments: %w", err)
	}
	return collectAppointments(rows)
}

// MarkNotified условный UPDATE служит блокировкой: из параллельных запусков
// напоминание создаст только тот, кто первым перевел is_notified.
func (r *PostgresAppointmentRepository) MarkNotified(ctx context.Context, appointmentID int64, reminder *domain.Notification) (bool, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":      "PostgresAppointmentRepository",
		"method":         "MarkNotified",
		"appointment_id": appointmentID,
	})

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `UPDATE appointments SET is_notified = true
		WHERE id = $1 AND is_notified = false AND is_canceled = false
		RETURNING id`, appointmentID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		repoLogger.Debug("Appointment already notified or canceled", nil)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to mark appointment %d as notified: %w", appointmentID, err)
	}

	if err := insertNotification(ctx, tx, reminder); err != nil {
		repoLogger.Error("Failed to insert reminder notification", err, nil)
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}

func (r *PostgresAppointmentRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Appointment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+appointmentColumns+` FROM appointments
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query all appointments: %w", err)
	}
	return collectAppointments(rows)
}

func collectAppointments(rows pgx.Rows) ([]domain.Appointment, error) {
	defer rows.Close()

	appointments := make([]domain.Appointment, 0)
	for rows.Next() {
		var a domain.Appointment
		if err := rows.Scan(&a.ID, &a.UserID, &a.Title, &a.Description, &a.AppointmentTime, &a.ReminderMinutes,
			&a.IsNotified, &a.IsCanceled, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during appointments iteration: %w", err)
	}
	return appointments, nil
}
