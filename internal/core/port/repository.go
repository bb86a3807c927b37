package port

import (
	"context"
	"time"

	"saved-search-service/internal/core/domain"
)

// SavedSearchRepositoryPort хранилище сохраненных поисков. Пользовательские чтения видят только active=true.
type SavedSearchRepositoryPort interface {
	// Create сохраняет поиск и заполняет ID.
	Create(ctx context.Context, search *domain.SavedSearch) error
	// ListActiveByUser поиски владельца, новые первыми.
	ListActiveByUser(ctx context.Context, userID int64) ([]domain.SavedSearch, error)
	// GetActiveForUser возвращает domain.ErrSavedSearchNotFound для чужого, удаленного или отсутствующего поиска.
	GetActiveForUser(ctx context.Context, id, userID int64) (*domain.SavedSearch, error)
	// Deactivate мягко удаляет поиск владельца. false, если активного поиска не было.
	Deactivate(ctx context.Context, id, userID int64) (bool, error)
	// ListNotifiable активные поиски с включенными уведомлениями для типа сделки.
	ListNotifiable(ctx context.Context, transactionType domain.TransactionType) ([]domain.SavedSearch, error)
	// ListAll все поиски, включая удаленные, новые первыми. Только для администрирования.
	ListAll(ctx context.Context, limit, offset int) ([]domain.SavedSearch, error)
}

// PostCandidateFilter грубый фильтр кандидатов, точный предикат применяется в ядре.
type PostCandidateFilter struct {
	TransactionType domain.TransactionType
	MinPrice        *float64
	MaxPrice        *float64
	Now             time.Time
	// GeohashCells префиксы ячеек, покрывающих круг поиска. nil - без пространственного фильтра.
	GeohashCells []string
}

type PostRepositoryPort interface {
	// GetByID возвращает domain.ErrPostNotFound, если объявления нет.
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
	// FindCandidates активные, не просроченные объявления с координатами по фильтру.
	FindCandidates(ctx context.Context, filter PostCandidateFilter) ([]domain.Post, error)
	// UpdateModeration меняет статус и срок публикации.
	UpdateModeration(ctx context.Context, id int64, status domain.PostStatus, expiry *time.Time) error
	// GetOwnerRole роль владельца объявления, пустая строка для неизвестного пользователя.
	GetOwnerRole(ctx context.Context, userID int64) (string, error)
}

type NotificationRepositoryPort interface {
	// Create сохраняет уведомление и заполняет ID.
	Create(ctx context.Context, n *domain.Notification) error
	// CreateSavedSearchMatches атомарно вставляет уведомления о совпадениях в одной транзакции,
	// пропуская уже существующие пары (saved_search_id, post_id). Возвращает только вставленные.
	CreateSavedSearchMatches(ctx context.Context, notifications []domain.Notification) ([]domain.Notification, error)
	// GetByID возвращает domain.ErrNotificationNotFound.
	GetByID(ctx context.Context, id int64) (*domain.Notification, error)
	MarkRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	// ListByUser страница входящих, новые первыми.
	ListByUser(ctx context.Context, userID int64, limit, offset int) (*domain.PaginatedNotifications, error)
	// ListAll уведомления всех пользователей, новые первыми.
	ListAll(ctx context.Context, limit, offset int) ([]domain.Notification, error)
}

type AppointmentRepositoryPort interface {
	Create(ctx context.Context, a *domain.Appointment) error
	// ListActiveByUser не отмененные встречи по возрастанию времени.
	ListActiveByUser(ctx context.Context, userID int64) ([]domain.Appointment, error)
	// Cancel false, если у владельца нет такой встречи.
	Cancel(ctx context.Context, id, userID int64) (bool, error)
	// FindDue встречи, по которым пора отправить напоминание.
	FindDue(ctx context.Context, now time.Time, limit int) ([]domain.Appointment, error)
	// MarkNotified в одной транзакции выставляет is_notified и сохраняет напоминание.
	// false, если встреча уже помечена или отменена (обработана параллельным запуском).
	MarkNotified(ctx context.Context, appointmentID int64, reminder *domain.Notification) (bool, error)
	// ListAll встречи всех пользователей, включая отмененные, по убыванию created_at.
	ListAll(ctx context.Context, limit, offset int) ([]domain.Appointment, error)
}

type LocationRepositoryPort interface {
	ListCities(ctx context.Context) ([]domain.City, error)
	GetCity(ctx context.Context, id int64) (*domain.City, error)
	ListDistricts(ctx context.Context, cityID int64) ([]domain.District, error)
	GetDistrict(ctx context.Context, id int64) (*domain.District, error)
	ListWards(ctx context.Context, districtID int64) ([]domain.Ward, error)
	GetWard(ctx context.Context, id int64) (*domain.Ward, error)

	// Create* возвращают domain.ErrLocationAlreadyExists при дубликате имени у родителя
	// и domain.ErrLocationNotFound при отсутствии родителя.
	CreateCity(ctx context.Context, city *domain.City) error
	CreateDistrict(ctx context.Context, district *domain.District) error
	CreateWard(ctx context.Context, ward *domain.Ward) error

	// Update* возвращают domain.ErrLocationNotFound, если нет записи или нового родителя,
	// и domain.ErrLocationAlreadyExists при конфликте имени.
	UpdateCity(ctx context.Context, city *domain.City) error
	UpdateDistrict(ctx context.Context, district *domain.District) error
	UpdateWard(ctx context.Context, ward *domain.Ward) error

	// Delete* удаляют запись вместе с дочерними. domain.ErrLocationInUse, если на нее ссылаются объявления.
	DeleteCity(ctx context.Context, id int64) error
	DeleteDistrict(ctx context.Context, id int64) error
	DeleteWard(ctx context.Context, id int64) error
}
