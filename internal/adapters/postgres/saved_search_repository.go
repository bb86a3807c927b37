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

const savedSearchColumns = `id, user_id, center_latitude, center_longitude, radius_km, transaction_type,
	min_price, max_price, notify_enabled, active, created_at`

// PostgresSavedSearchRepository реализация SavedSearchRepositoryPort.
type PostgresSavedSearchRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSavedSearchRepository(pool *pgxpool.Pool) (*PostgresSavedSearchRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresSavedSearchRepository{pool: pool}, nil
}

func (r *PostgresSavedSearchRepository) Create(ctx context.Context, s *domain.SavedSearch) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresSavedSearchRepository",
		"method":    "Create",
		"user_id":   s.UserID,
	})

	query := `
		INSERT INTO saved_searches (user_id, center_latitude, center_longitude, radius_km, transaction_type,
			min_price, max_price, notify_enabled, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		s.UserID, s.CenterLatitude, s.CenterLongitude, s.RadiusKm, string(s.TransactionType),
		s.MinPrice, s.MaxPrice, s.NotifyEnabled, s.Active, s.CreatedAt,
	).Scan(&s.ID)
	if err != nil {
		repoLogger.Error("Failed to insert saved search", err, nil)
		return fmt.Errorf("failed to insert saved search: %w", err)
	}

	repoLogger.Debug("Saved search inserted", port.Fields{"saved_search_id": s.ID})
	return nil
}

func (r *PostgresSavedSearchRepository) ListActiveByUser(ctx context.Context, userID int64) ([]domain.SavedSearch, error) {
	query := `SELECT ` + savedSearchColumns + ` FROM saved_searches
		WHERE user_id = $1 AND active = true
		ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved searches: %w", err)
	}
	return collectSavedSearches(rows)
}

func (r *PostgresSavedSearchRepository) GetActiveForUser(ctx context.Context, id, userID int64) (*domain.SavedSearch, error) {
	query := `SELECT ` + savedSearchColumns + ` FROM saved_searches
		WHERE id = $1 AND user_id = $2 AND active = true`

	s, err := scanSavedSearch(r.pool.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSavedSearchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get saved search %d: %w", id, err)
	}
	return s, nil
}

func (r *PostgresSavedSearchRepository) Deactivate(ctx context.Context, id, userID int64) (bool, error) {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE saved_searches SET active = false WHERE id = $1 AND user_id = $2 AND active = true`,
		id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to deactivate saved search %d: %w", id, err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

func (r *PostgresSavedSearchRepository) ListNotifiable(ctx context.Context, transactionType domain.TransactionType) ([]domain.SavedSearch, error) {
	query := `SELECT ` + savedSearchColumns + ` FROM saved_searches
		WHERE active = true AND notify_enabled = true AND transaction_type = $1
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query, string(transactionType))
	if err != nil {
		return nil, fmt.Errorf("failed to query notifiable saved searches: %w", err)
	}
	return collectSavedSearches(rows)
}

func (r *PostgresSavedSearchRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.SavedSearch, error) {
	query := `SELECT ` + savedSearchColumns + ` FROM saved_searches
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query all saved searches: %w", err)
	}
	return collectSavedSearches(rows)
}

func scanSavedSearch(row pgx.Row) (*domain.SavedSearch, error) {
	var s domain.SavedSearch
	var transactionType string
	err := row.Scan(&s.ID, &s.UserID, &s.CenterLatitude, &s.CenterLongitude, &s.RadiusKm, &transactionType,
		&s.MinPrice, &s.MaxPrice, &s.NotifyEnabled, &s.Active, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.TransactionType = domain.TransactionType(transactionType)
	return &s, nil
}

func collectSavedSearches(rows pgx.Rows) ([]domain.SavedSearch, error) {
	defer rows.Close()

	searches := make([]domain.SavedSearch, 0)
	for rows.Next() {
		s, err := scanSavedSearch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan saved search: %w", err)
		}
		searches = append(searches, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during saved searches iteration: %w", err)
	}
	return searches, nil
}
