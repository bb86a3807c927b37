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

const postSelect = `
	SELECT p.id, p.user_id, p.title, p.description, p.price, p.transaction_type, p.status,
		p.expiry_date, p.latitude, p.longitude, p.full_address,
		COALESCE(c.name, ''), COALESCE(d.name, ''), COALESCE(w.name, ''), p.created_at
	FROM posts p
	LEFT JOIN cities c ON c.id = p.city_id
	LEFT JOIN districts d ON d.id = p.district_id
	LEFT JOIN wards w ON w.id = p.ward_id`

// PostgresPostRepository читает объявления и меняет их модерационный статус.
type PostgresPostRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPostRepository(pool *pgxpool.Pool) (*PostgresPostRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresPostRepository{pool: pool}, nil
}

func (r *PostgresPostRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := scanPost(r.pool.QueryRow(ctx, postSelect+` WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post %d: %w", id, err)
	}
	return post, nil
}

func (r *PostgresPostRepository) FindCandidates(ctx context.Context, filter port.PostCandidateFilter) ([]domain.Post, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresPostRepository",
		"method":    "FindCandidates",
	})

	whereClause, args := applyCandidateFilter(filter)
	query := postSelect + " " + whereClause + " ORDER BY p.created_at DESC, p.id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		repoLogger.Error("Failed to query candidate posts", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to query candidate posts: %w", err)
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during posts iteration: %w", err)
	}

	repoLogger.Debug("Candidate posts loaded", port.Fields{"count": len(posts), "geo_cells": len(filter.GeohashCells)})
	return posts, nil
}

// UpdateModeration при expiry == nil оставляет прежний срок публикации.
func (r *PostgresPostRepository) UpdateModeration(ctx context.Context, id int64, status domain.PostStatus, expiry *time.Time) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE posts SET status = $2, expiry_date = COALESCE($3, expiry_date) WHERE id = $1`,
		id, string(status), expiry)
	if err != nil {
		return fmt.Errorf("failed to update post %d moderation: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostgresPostRepository) GetOwnerRole(ctx context.Context, userID int64) (string, error) {
	var role string
	err := r.pool.QueryRow(ctx, `SELECT role FROM users WHERE id = $1`, userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get role of user %d: %w", userID, err)
	}
	return role, nil
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var p domain.Post
	var transactionType, status string
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.Price, &transactionType, &status,
		&p.ExpiryDate, &p.Latitude, &p.Longitude, &p.FullAddress,
		&p.CityName, &p.DistrictName, &p.WardName, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.TransactionType = domain.TransactionType(transactionType)
	p.Status = domain.PostStatus(status)
	return &p, nil
}
