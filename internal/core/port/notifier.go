package port

import (
	"context"

	"saved-search-service/internal/core/domain"
)

// NotifierPort хук доставки уведомлений в реальном времени.
// Ошибка доставки не должна прерывать бизнес-операцию: вызывающий только логирует ее.
type NotifierPort interface {
	Notify(ctx context.Context, event domain.NotificationEvent) error
}
