package usecases_port

import (
	"context"

	"saved-search-service/internal/core/domain"
)

// LocationCatalogUseCasePort справочник городов, районов и кварталов.
type LocationCatalogUseCasePort interface {
	ListCities(ctx context.Context) ([]domain.City, error)
	GetCity(ctx context.Context, id int64) (*domain.City, error)
	ListDistricts(ctx context.Context, cityID int64) ([]domain.District, error)
	GetDistrict(ctx context.Context, id int64) (*domain.District, error)
	ListWards(ctx context.Context, districtID int64) ([]domain.Ward, error)
	GetWard(ctx context.Context, id int64) (*domain.Ward, error)

	CreateCity(ctx context.Context, name string) (*domain.City, error)
	CreateDistrict(ctx context.Context, cityID int64, name string) (*domain.District, error)
	CreateWard(ctx context.Context, districtID int64, name string) (*domain.Ward, error)

	UpdateCity(ctx context.Context, id int64, name string) (*domain.City, error)
	UpdateDistrict(ctx context.Context, id, cityID int64, name string) (*domain.District, error)
	UpdateWard(ctx context.Context, id, districtID int64, name string) (*domain.Ward, error)

	DeleteCity(ctx context.Context, id int64) error
	DeleteDistrict(ctx context.Context, id int64) error
	DeleteWard(ctx context.Context, id int64) error
}
