package postgres_adapter

import (
	"context"
	"errors"
	"fmt"

	"saved-search-service/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresLocationRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresLocationRepository(pool *pgxpool.Pool) (*PostgresLocationRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresLocationRepository{pool: pool}, nil
}

func (r *PostgresLocationRepository) ListCities(ctx context.Context) ([]domain.City, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM cities ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cities: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.City, error) {
		var c domain.City
		err := row.Scan(&c.ID, &c.Name)
		return c, err
	})
}

func (r *PostgresLocationRepository) GetCity(ctx context.Context, id int64) (*domain.City, error) {
	var c domain.City
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM cities WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if err != nil {
		return nil, locationLookupError("city", id, err)
	}
	return &c, nil
}

func (r *PostgresLocationRepository) ListDistricts(ctx context.Context, cityID int64) ([]domain.District, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, city_id, name FROM districts WHERE city_id = $1 ORDER BY name`, cityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query districts: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.District, error) {
		var d domain.District
		err := row.Scan(&d.ID, &d.CityID, &d.Name)
		return d, err
	})
}

func (r *PostgresLocationRepository) GetDistrict(ctx context.Context, id int64) (*domain.District, error) {
	var d domain.District
	err := r.pool.QueryRow(ctx, `SELECT id, city_id, name FROM districts WHERE id = $1`, id).Scan(&d.ID, &d.CityID, &d.Name)
	if err != nil {
		return nil, locationLookupError("district", id, err)
	}
	return &d, nil
}

func (r *PostgresLocationRepository) ListWards(ctx context.Context, districtID int64) ([]domain.Ward, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, district_id, name FROM wards WHERE district_id = $1 ORDER BY name`, districtID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wards: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Ward, error) {
		var w domain.Ward
		err := row.Scan(&w.ID, &w.DistrictID, &w.Name)
		return w, err
	})
}

func (r *PostgresLocationRepository) GetWard(ctx context.Context, id int64) (*domain.Ward, error) {
	var w domain.Ward
	err := r.pool.QueryRow(ctx, `SELECT id, district_id, name FROM wards WHERE id = $1`, id).Scan(&w.ID, &w.DistrictID, &w.Name)
	if err != nil {
		return nil, locationLookupError("ward", id, err)
	}
	return &w, nil
}

func (r *PostgresLocationRepository) CreateCity(ctx context.Context, city *domain.City) error {
	err := r.pool.QueryRow(ctx, `INSERT INTO cities (name) VALUES ($1) RETURNING id`, city.Name).Scan(&city.ID)
	return locationInsertError("city", err)
}

func (r *PostgresLocationRepository) CreateDistrict(ctx context.Context, district *domain.District) error {
	err := r.pool.QueryRow(ctx, `INSERT INTO districts (city_id, name) VALUES ($1, $2) RETURNING id`,
		district.CityID, district.Name).Scan(&district.ID)
	return locationInsertError("district", err)
}

func (r *PostgresLocationRepository) CreateWard(ctx context.Context, ward *domain.Ward) error {
	err := r.pool.QueryRow(ctx, `INSERT INTO wards (district_id, name) VALUES ($1, $2) RETURNING id`,
		ward.DistrictID, ward.Name).Scan(&ward.ID)
	return locationInsertError("ward", err)
}

func (r *PostgresLocationRepository) UpdateCity(ctx context.Context, city *domain.City) error {
	cmdTag, err := r.pool.Exec(ctx, `UPDATE cities SET name = $2 WHERE id = $1`, city.ID, city.Name)
	if err != nil {
		return locationWriteError("city", err)
	}
	return locationAffected("city", city.ID, cmdTag.RowsAffected())
}

func (r *PostgresLocationRepository) UpdateDistrict(ctx context.Context, district *domain.District) error {
	cmdTag, err := r.pool.Exec(ctx, `UPDATE districts SET city_id = $2, name = $3 WHERE id = $1`,
		district.ID, district.CityID, district.Name)
	if err != nil {
		return locationWriteError("district", err)
	}
	return locationAffected("district", district.ID, cmdTag.RowsAffected())
}

func (r *PostgresLocationRepository) UpdateWard(ctx context.Context, ward *domain.Ward) error {
	cmdTag, err := r.pool.Exec(ctx, `UPDATE wards SET district_id = $2, name = $3 WHERE id = $1`,
		ward.ID, ward.DistrictID, ward.Name)
	if err != nil {
		return locationWriteError("ward", err)
	}
	return locationAffected("ward", ward.ID, cmdTag.RowsAffected())
}

func (r *PostgresLocationRepository) DeleteCity(ctx context.Context, id int64) error {
	return r.deleteLocation(ctx, "city", `DELETE FROM cities WHERE id = $1`, id)
}

func (r *PostgresLocationRepository) DeleteDistrict(ctx context.Context, id int64) error {
	return r.deleteLocation(ctx, "district", `DELETE FROM districts WHERE id = $1`, id)
}

func (r *PostgresLocationRepository) DeleteWard(ctx context.Context, id int64) error {
	return r.deleteLocation(ctx, "ward", `DELETE FROM wards WHERE id = $1`, id)
}

// deleteLocation дочерние записи уходят каскадом, ссылки из posts каскада не имеют.
func (r *PostgresLocationRepository) deleteLocation(ctx context.Context, kind, query string, id int64) error {
	cmdTag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return fmt.Errorf("%s %d: %w", kind, id, domain.ErrLocationInUse)
		}
		return fmt.Errorf("failed to delete %s %d: %w", kind, id, err)
	}
	return locationAffected(kind, id, cmdTag.RowsAffected())
}

func locationAffected(kind string, id, rows int64) error {
	if rows == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, domain.ErrLocationNotFound)
	}
	return nil
}

func locationLookupError(kind string, id int64, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", kind, id, domain.ErrLocationNotFound)
	}
	return fmt.Errorf("failed to get %s %d: %w", kind, id, err)
}

func locationInsertError(kind string, err error) error {
	if err == nil {
		return nil
	}
	return locationWriteError(kind, err)
}

// locationWriteError переводит нарушения ограничений в доменные ошибки.
func locationWriteError(kind string, err error) error {
	switch pgErrorCode(err) {
	case pgUniqueViolation:
		return fmt.Errorf("%s: %w", kind, domain.ErrLocationAlreadyExists)
	case pgForeignKeyViolation:
		return fmt.Errorf("parent of %s: %w", kind, domain.ErrLocationNotFound)
	}
	return fmt.Errorf("failed to write %s: %w", kind, err)
}
