package postgres_adapter

import (
	"context"
	"errors"
	"fmt"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const notificationColumns = `id, user_id, post_id, saved_search_id, appointment_id, sender_id,
	title, message, kind, is_read, created_at`

const insertNotificationQuery = `
	INSERT INTO notifications (user_id, post_id, saved_search_id, appointment_id, sender_id, title, message, kind, is_read, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

type PostgresNotificationRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresNotificationRepository(pool *pgxpool.Pool) (*PostgresNotificationRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresNotificationRepository{pool: pool}, nil
}

func notificationArgs(n *domain.Notification) []interface{} {
	return []interface{}{n.UserID, n.PostID, n.SavedSearchID, n.AppointmentID, n.SenderID,
		n.Title, n.Message, string(n.Kind), n.IsRead, n.CreatedAt}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	return insertNotification(ctx, r.pool, n)
}

// queryRower общий интерфейс *pgxpool.Pool и pgx.Tx.
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertNotification(ctx context.Context, q queryRower, n *domain.Notification) error {
	err := q.QueryRow(ctx, insertNotificationQuery+` RETURNING id, created_at`, notificationArgs(n)...).
		Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// CreateSavedSearchMatches опирается на частичный уникальный индекс
// (saved_search_id, post_id, kind): существующие пары пропускаются без ошибки.
func (r *PostgresNotificationRepository) CreateSavedSearchMatches(ctx context.Context, notifications []domain.Notification) ([]domain.Notification, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresNotificationRepository",
		"method":    "CreateSavedSearchMatches",
		"count":     len(notifications),
	})

	if len(notifications) == 0 {
		return nil, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		repoLogger.Error("Failed to begin transaction", err, nil)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := insertNotificationQuery + `
		ON CONFLICT (saved_search_id, post_id, kind) WHERE saved_search_id IS NOT NULL DO NOTHING
		RETURNING id, created_at`

	created := make([]domain.Notification, 0, len(notifications))
	for _, n := range notifications {
		err := tx.QueryRow(ctx, query, notificationArgs(&n)...).Scan(&n.ID, &n.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			// уже уведомляли по этой паре
			continue
		}
		if err != nil {
			repoLogger.Error("Failed to insert match notification", err, port.Fields{"user_id": n.UserID})
			return nil, fmt.Errorf("failed to insert match notification: %w", err)
		}
		created = append(created, n)
	}

	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit transaction", err, nil)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Debug("Match notifications stored", port.Fields{"created": len(created)})
	return created, nil
}

func (r *PostgresNotificationRepository) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	n, err := scanNotification(r.pool.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification %d: %w", id, err)
	}
	return n, nil
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id int64) error {
	cmdTag, err := r.pool.Exec(ctx, `UPDATE notifications SET is_read = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification %d as read: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *PostgresNotificationRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

// ListByUser считает общее и непрочитанное количество и выбирает страницу в одной транзакции.
func (r *PostgresNotificationRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) (*domain.PaginatedNotifications, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresNotificationRepository",
		"method":    "ListByUser",
		"user_id":   userID,
	})

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		repoLogger.Error("Failed to begin transaction", err, nil)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	page := &domain.PaginatedNotifications{
		Items:        []domain.Notification{},
		CurrentPage:  offset/limit + 1,
		ItemsPerPage: limit,
	}

	countQuery := `SELECT COUNT(*), COUNT(*) FILTER (WHERE NOT is_read) FROM notifications WHERE user_id = $1`
	if err := tx.QueryRow(ctx, countQuery, userID).Scan(&page.TotalCount, &page.UnreadCount); err != nil {
		repoLogger.Error("Failed to count notifications", err, nil)
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}
	if page.TotalCount == 0 {
		return page, nil
	}

	dataQuery := `SELECT ` + notificationColumns + ` FROM notifications
		WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := tx.Query(ctx, dataQuery, userID, limit, offset)
	if err != nil {
		repoLogger.Error("Failed to query notifications", err, nil)
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		page.Items = append(page.Items, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during notifications iteration: %w", err)
	}
	rows.Close()

	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit transaction", err, nil)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return page, nil
}

func (r *PostgresNotificationRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Notification, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+notificationColumns+` FROM notifications
		ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query all notifications: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		items = append(items, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during notifications iteration: %w", err)
	}
	return items, nil
}

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var n domain.Notification
	var kind string
	err := row.Scan(&n.ID, &n.UserID, &n.PostID, &n.SavedSearchID, &n.AppointmentID, &n.SenderID,
		&n.Title, &n.Message, &kind, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	n.Kind = domain.NotificationKind(kind)
	return &n, nil
}
