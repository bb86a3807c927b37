package usecase

import (
	"context"
	"fmt"
	"strings"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"
)

// LocationCatalogUseCase чтение и администрирование справочника локаций.
type LocationCatalogUseCase struct {
	repo port.LocationRepositoryPort
}

func NewLocationCatalogUseCase(repo port.LocationRepositoryPort) *LocationCatalogUseCase {
	return &LocationCatalogUseCase{repo: repo}
}

func (uc *LocationCatalogUseCase) ListCities(ctx context.Context) ([]domain.City, error) {
	return uc.repo.ListCities(ctx)
}

func (uc *LocationCatalogUseCase) GetCity(ctx context.Context, id int64) (*domain.City, error) {
	return uc.repo.GetCity(ctx, id)
}

// ListDistricts возвращает ErrLocationNotFound для неизвестного города.
func (uc *LocationCatalogUseCase) ListDistricts(ctx context.Context, cityID int64) ([]domain.District, error) {
	if _, err := uc.repo.GetCity(ctx, cityID); err != nil {
		return nil, err
	}
	return uc.repo.ListDistricts(ctx, cityID)
}

func (uc *LocationCatalogUseCase) GetDistrict(ctx context.Context, id int64) (*domain.District, error) {
	return uc.repo.GetDistrict(ctx, id)
}

func (uc *LocationCatalogUseCase) ListWards(ctx context.Context, districtID int64) ([]domain.Ward, error) {
	if _, err := uc.repo.GetDistrict(ctx, districtID); err != nil {
		return nil, err
	}
	return uc.repo.ListWards(ctx, districtID)
}

func (uc *LocationCatalogUseCase) GetWard(ctx context.Context, id int64) (*domain.Ward, error) {
	return uc.repo.GetWard(ctx, id)
}

func (uc *LocationCatalogUseCase) CreateCity(ctx context.Context, name string) (*domain.City, error) {
	name, err := normalizeLocationName(name)
	if err != nil {
		return nil, err
	}
	city := &domain.City{Name: name}
	if err := uc.repo.CreateCity(ctx, city); err != nil {
		uc.logCreateFailure(ctx, "city", name, err)
		return nil, err
	}
	return city, nil
}

func (uc *LocationCatalogUseCase) CreateDistrict(ctx context.Context, cityID int64, name string) (*domain.District, error) {
	name, err := normalizeLocationName(name)
	if err != nil {
		return nil, err
	}
	district := &domain.District{CityID: cityID, Name: name}
	if err := uc.repo.CreateDistrict(ctx, district); err != nil {
		uc.logCreateFailure(ctx, "district", name, err)
		return nil, err
	}
	return district, nil
}

func (uc *LocationCatalogUseCase) CreateWard(ctx context.Context, districtID int64, name string) (*domain.Ward, error) {
	name, err := normalizeLocationName(name)
	if err != nil {
		return nil, err
	}
	ward := &domain.Ward{DistrictID: districtID, Name: name}
	if err := uc.repo.CreateWard(ctx, ward); err != nil {
		uc.logCreateFailure(ctx, "ward", name, err)
		return nil, err
	}
	return ward, nil
}

func (uc *LocationCatalogUseCase) UpdateCity(ctx context.Context, id int64, name string) (*domain.City, error) {
	name, err := normalizeLocationName(name)
	if err != nil {
		return nil, err
	}
	city := &domain.City{ID: id, Name: name}
	if err := uc.repo.UpdateCity(ctx, city); err != nil {
		uc.logWriteFailure(ctx, "update", "city", id, err)
		return nil, err
	}
	return city, nil
}

// UpdateDistrict может перенести район в другой город.
func (uc *LocationCatalogUseCase) UpdateDistrict(ctx context.Context, id, cityID int64, name string) (*domain.District, error) {
	name, err := normalizeLocationName(name)
	if err != nil {
		return nil, err
	}
	district := &domain.District{ID: id, CityID: cityID, Name: name}
	if err := uc.repo.UpdateDistrict(ctx, district); err != nil {
		uc.logWriteFailure(ctx, "update", "district", id, err)
		return nil, err
	}
	return district, nil
}

func (uc *LocationCatalogUseCase) UpdateWard(ctx context.Context, id, districtID int64, name string) (*domain.Ward, error) {
	name, err := normalizeLocationName(name)
	if err != nil {
		return nil, err
	}
	ward := &domain.Ward{ID: id, DistrictID: districtID, Name: name}
	if err := uc.repo.UpdateWard(ctx, ward); err != nil {
		uc.logWriteFailure(ctx, "update", "ward", id, err)
		return nil, err
	}
	return ward, nil
}

func (uc *LocationCatalogUseCase) DeleteCity(ctx context.Context, id int64) error {
	if err := uc.repo.DeleteCity(ctx, id); err != nil {
		uc.logWriteFailure(ctx, "delete", "city", id, err)
		return err
	}
	return nil
}

func (uc *LocationCatalogUseCase) DeleteDistrict(ctx context.Context, id int64) error {
	if err := uc.repo.DeleteDistrict(ctx, id); err != nil {
		uc.logWriteFailure(ctx, "delete", "district", id, err)
		return err
	}
	return nil
}

func (uc *LocationCatalogUseCase) DeleteWard(ctx context.Context, id int64) error {
	if err := uc.repo.DeleteWard(ctx, id); err != nil {
		uc.logWriteFailure(ctx, "delete", "ward", id, err)
		return err
	}
	return nil
}

func (uc *LocationCatalogUseCase) logCreateFailure(ctx context.Context, kind, name string, err error) {
	contextkeys.LoggerFromContext(ctx).Warn("Failed to create location", port.Fields{
		"use_case": "LocationCatalog",
		"kind":     kind,
		"name":     name,
		"error":    err.Error(),
	})
}

func (uc *LocationCatalogUseCase) logWriteFailure(ctx context.Context, op, kind string, id int64, err error) {
	contextkeys.LoggerFromContext(ctx).Warn("Failed to "+op+" location", port.Fields{
		"use_case": "LocationCatalog",
		"kind":     kind,
		"id":       id,
		"error":    err.Error(),
	})
}

func normalizeLocationName(name string) (string, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "", fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if len([]rune(name)) > 100 {
		return "", fmt.Errorf("%w: name must be at most 100 characters", domain.ErrValidation)
	}
	return name, nil
}
