package domain

import (
	"fmt"
	"time"
)

// NotificationKind тег типа уведомления в общем хранилище уведомлений.
type NotificationKind string

const (
	KindSavedSearch  NotificationKind = "SavedSearch"
	KindApproved     NotificationKind = "approved"
	KindPostRejected NotificationKind = "PostRejected"
	KindReminder     NotificationKind = "Reminder"
	KindMessage      NotificationKind = "Message"
	KindFavorite     NotificationKind = "Favorite"
	KindPostPending  NotificationKind = "PostPending"
	KindPostApproved NotificationKind = "PostApproved"
	KindWelcome      NotificationKind = "Welcome"
)

// Notification запись во входящих пользователя.
// Для KindSavedSearch пара (SavedSearchID, PostID) уникальна.
type Notification struct {
	ID            int64
	UserID        int64
	PostID        *int64
	SavedSearchID *int64
	AppointmentID *int64
	SenderID      *int64
	Title         string
	Message       string
	Kind          NotificationKind
	IsRead        bool
	CreatedAt     time.Time
}

func int64Ptr(v int64) *int64 { return &v }

// NewSavedSearchMatchNotification уведомление о новом объявлении в области поиска.
func NewSavedSearchMatchNotification(search *SavedSearch, post *Post, now time.Time) Notification {
	return Notification{
		UserID:        search.UserID,
		PostID:        int64Ptr(post.ID),
		SavedSearchID: int64Ptr(search.ID),
		Title:         "Bài đăng mới trong khu vực quan tâm",
		Message:       fmt.Sprintf("Có bài đăng mới phù hợp với khu vực tìm kiếm của bạn: %s", post.Title),
		Kind:          KindSavedSearch,
		CreatedAt:     now.UTC(),
	}
}

// NewPostApprovedNotification уведомление владельцу об одобрении.
func NewPostApprovedNotification(post *Post, now time.Time) Notification {
	return Notification{
		UserID:    post.UserID,
		PostID:    int64Ptr(post.ID),
		Title:     "Tin đăng đã được duyệt",
		Message:   fmt.Sprintf("Tin đăng '%s' của bạn đã được admin duyệt thành công.", post.Title),
		Kind:      KindApproved,
		CreatedAt: now.UTC(),
	}
}

// NewPostRejectedNotification уведомление владельцу об отклонении.
func NewPostRejectedNotification(post *Post, now time.Time) Notification {
	return Notification{
		UserID:    post.UserID,
		PostID:    int64Ptr(post.ID),
		Title:     "Tin đăng bị từ chối",
		Message:   fmt.Sprintf("Tin đăng '%s' của bạn đã bị từ chối bởi admin.", post.Title),
		Kind:      KindPostRejected,
		CreatedAt: now.UTC(),
	}
}

// NewReminderNotification напоминание о предстоящей встрече.
func NewReminderNotification(a *Appointment, now time.Time) Notification {
	return Notification{
		UserID:        a.UserID,
		AppointmentID: int64Ptr(a.ID),
		Title:         "Nhắc lịch hẹn",
		Message:       fmt.Sprintf("Lịch hẹn \"%s\" sẽ bắt đầu lúc %s", a.Title, a.AppointmentTime.Format("15:04 02/01/2006")),
		Kind:          KindReminder,
		CreatedAt:     now.UTC(),
	}
}

// PaginatedNotifications страница входящих.
type PaginatedNotifications struct {
	Items        []Notification
	TotalCount   int64
	UnreadCount  int64
	CurrentPage  int
	ItemsPerPage int
}

// NotificationEventType тип события доставки.
type NotificationEventType string

const (
	EventNotificationCreated NotificationEventType = "notification_created"
	EventNotificationRead    NotificationEventType = "notification_read"
)

// NotificationEvent то, что получает хук доставки.
type NotificationEvent struct {
	Type         NotificationEventType
	Notification Notification
}
