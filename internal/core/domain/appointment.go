package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxReminderMinutes = 1440

// Appointment встреча пользователя с напоминанием за ReminderMinutes минут.
type Appointment struct {
	ID              int64
	UserID          int64
	Title           string
	Description     *string
	AppointmentTime time.Time
	ReminderMinutes int
	IsNotified      bool
	IsCanceled      bool
	CreatedAt       time.Time
}

type NewAppointmentParams struct {
	UserID          int64
	Title           string
	Description     *string
	AppointmentTime time.Time
	ReminderMinutes int
}

// NewAppointment проверяет параметры: время в будущем, напоминание 0..1440 минут.
func NewAppointment(p NewAppointmentParams, now time.Time) (*Appointment, error) {
	title := strings.TrimSpace(p.Title)
	switch {
	case title == "":
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	case utf8.RuneCountInString(title) > 200:
		return nil, fmt.Errorf("%w: title must be at most 200 characters", ErrValidation)
	case p.Description != nil && utf8.RuneCountInString(*p.Description) > 1000:
		return nil, fmt.Errorf("%w: description must be at most 1000 characters", ErrValidation)
	case !p.AppointmentTime.After(now):
		return nil, fmt.Errorf("%w: appointment time must be in the future", ErrValidation)
	case p.ReminderMinutes < 0 || p.ReminderMinutes > MaxReminderMinutes:
		return nil, fmt.Errorf("%w: reminder minutes must be between 0 and %d", ErrValidation, MaxReminderMinutes)
	}

	return &Appointment{
		UserID:          p.UserID,
		Title:           title,
		Description:     p.Description,
		AppointmentTime: p.AppointmentTime.UTC(),
		ReminderMinutes: p.ReminderMinutes,
		CreatedAt:       now.UTC(),
	}, nil
}

// RemindAt момент, начиная с которого нужно отправить напоминание.
func (a *Appointment) RemindAt() time.Time {
	return a.AppointmentTime.Add(-time.Duration(a.ReminderMinutes) * time.Minute)
}

// ReminderDue true, если напоминание пора отправить и оно еще не отправлено.
func (a *Appointment) ReminderDue(now time.Time) bool {
	return !a.IsNotified && !a.IsCanceled && !a.RemindAt().After(now)
}
