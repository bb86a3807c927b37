package postgres_adapter

import (
	"testing"
	"time"

	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"

	"github.com/stretchr/testify/assert"
)

func TestApplyCandidateFilter(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	minPrice, maxPrice := 1000.0, 5000.0

	where, args := applyCandidateFilter(port.PostCandidateFilter{
		TransactionType: domain.TransactionSale,
		MinPrice:        &minPrice,
		MaxPrice:        &maxPrice,
		Now:             now,
		GeohashCells:    []string{"w7er", "w7eq"},
	})

	assert.Equal(t, "WHERE p.status = 'Active' AND p.latitude IS NOT NULL AND p.longitude IS NOT NULL"+
		" AND (p.expiry_date IS NULL OR p.expiry_date > $1)"+
		" AND p.transaction_type = $2"+
		" AND p.price >= $3 AND p.price <= $4"+
		" AND (p.geohash IS NULL OR substr(p.geohash, 1, 4) = ANY($5))", where)
	assert.Equal(t, []interface{}{now, "Sale", 1000.0, 5000.0, []string{"w7er", "w7eq"}}, args)
}

func TestApplyCandidateFilter_WithoutOptionalBounds(t *testing.T) {
	now := time.Now()

	where, args := applyCandidateFilter(port.PostCandidateFilter{
		TransactionType: domain.TransactionRent,
		Now:             now,
	})

	assert.NotContains(t, where, "p.price")
	assert.NotContains(t, where, "geohash")
	assert.Len(t, args, 2)
}

func TestMigrationURL(t *testing.T) {
	for in, want := range map[string]string{
		"postgres://u:p@localhost:5432/db?sslmode=disable": "pgx5://u:p@localhost:5432/db?sslmode=disable",
		"postgresql://u@db/app":                            "pgx5://u@db/app",
		"pgx5://u@db/app":                                  "pgx5://u@db/app",
	} {
		got, err := migrationURL(in)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := migrationURL("mysql://u@db/app")
	assert.Error(t, err)
}
