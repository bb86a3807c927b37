package domain_test

import (
	"strings"
	"testing"
	"time"

	"saved-search-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppointment(t *testing.T) {
	valid := domain.NewAppointmentParams{
		UserID:          5,
		Title:           "  Xem nhà  ",
		AppointmentTime: now.Add(2 * time.Hour),
		ReminderMinutes: 30,
	}

	a, err := domain.NewAppointment(valid, now)
	require.NoError(t, err)
	assert.Equal(t, "Xem nhà", a.Title)
	assert.False(t, a.IsNotified)
	assert.False(t, a.IsCanceled)

	long := strings.Repeat("x", 1001)
	for name, p := range map[string]domain.NewAppointmentParams{
		"past time":        {UserID: 5, Title: "t", AppointmentTime: now.Add(-time.Minute)},
		"now":              {UserID: 5, Title: "t", AppointmentTime: now},
		"empty title":      {UserID: 5, Title: "   ", AppointmentTime: now.Add(time.Hour)},
		"reminder too big": {UserID: 5, Title: "t", AppointmentTime: now.Add(time.Hour), ReminderMinutes: 1441},
		"negative":         {UserID: 5, Title: "t", AppointmentTime: now.Add(time.Hour), ReminderMinutes: -1},
		"long description": {UserID: 5, Title: "t", AppointmentTime: now.Add(time.Hour), Description: &long},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := domain.NewAppointment(p, now)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestAppointment_ReminderDue(t *testing.T) {
	a := &domain.Appointment{AppointmentTime: now.Add(30 * time.Minute), ReminderMinutes: 30}
	assert.True(t, a.ReminderDue(now))
	assert.False(t, a.ReminderDue(now.Add(-time.Second)))

	a.IsNotified = true
	assert.False(t, a.ReminderDue(now))

	a.IsNotified, a.IsCanceled = false, true
	assert.False(t, a.ReminderDue(now))
}
