package constants

// Входящие события объявлений
const (
	PostsExchange           = "posts_exchange"
	RoutingKeyPostActivated = "post.activated"
	QueuePostActivated      = "saved_search_post_activated"

	EventTypePostActivated    = "PostActivatedEvent"
	EventVersionPostActivated = "1.0.0"
)

// Повторы и финальная очередь для событий, которые не удалось обработать
const (
	PostActivatedRetryExchange = "saved_search_post_activated_retry"
	PostActivatedRetryQueue    = "saved_search_post_activated_retry_queue"
	PostActivatedDLX           = "saved_search_post_activated_dlx"
	PostActivatedDLQ           = "saved_search_post_activated_dlq"
)

// Исходящие события уведомлений
const (
	NotificationsExchange         = "notifications_exchange"
	RoutingKeyNotificationCreated = "notification.created"
	RoutingKeyNotificationRead    = "notification.read"
)

// Заголовки сообщений
const (
	HeaderEventType    = "event-type"
	HeaderEventVersion = "event-version"
	HeaderTraceID      = "x-trace-id"
)
