package notifier

import (
	"encoding/json"
	"time"

	"saved-search-service/internal/core/domain"
)

// NotificationDTO форма уведомления во всех каналах доставки.
type NotificationDTO struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	PostID        *int64    `json:"post_id,omitempty"`
	SavedSearchID *int64    `json:"saved_search_id,omitempty"`
	AppointmentID *int64    `json:"appointment_id,omitempty"`
	SenderID      *int64    `json:"sender_id,omitempty"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Kind          string    `json:"kind"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}

// EventEnvelope тело сообщения для Redis и RabbitMQ.
type EventEnvelope struct {
	Type         string          `json:"type"`
	Notification NotificationDTO `json:"notification"`
}

func ToNotificationDTO(n domain.Notification) NotificationDTO {
	return NotificationDTO{
		ID:            n.ID,
		UserID:        n.UserID,
		PostID:        n.PostID,
		SavedSearchID: n.SavedSearchID,
		AppointmentID: n.AppointmentID,
		SenderID:      n.SenderID,
		Title:         n.Title,
		Message:       n.Message,
		Kind:          string(n.Kind),
		IsRead:        n.IsRead,
		CreatedAt:     n.CreatedAt,
	}
}

func marshalEnvelope(event domain.NotificationEvent) ([]byte, error) {
	return json.Marshal(EventEnvelope{
		Type:         string(event.Type),
		Notification: ToNotificationDTO(event.Notification),
	})
}
