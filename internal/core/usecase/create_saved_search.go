package usecase

import (
	"context"
	"fmt"
	"time"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"
)

type CreateSavedSearchUseCase struct {
	repo port.SavedSearchRepositoryPort
	now  func() time.Time
}

func NewCreateSavedSearchUseCase(repo port.SavedSearchRepositoryPort) *CreateSavedSearchUseCase {
	return &CreateSavedSearchUseCase{repo: repo, now: time.Now}
}

// Execute проверяет границы цены и координаты, затем сохраняет активный поиск.
// При ошибке валидации ничего не сохраняется.
func (uc *CreateSavedSearchUseCase) Execute(ctx context.Context, params domain.NewSavedSearchParams) (*domain.SavedSearch, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "CreateSavedSearch",
		"user_id":  params.UserID,
	})
	ucLogger.Info("Use case started", nil)

	search, err := domain.NewSavedSearch(params, uc.now())
	if err != nil {
		ucLogger.Warn("Saved search rejected by validation", port.Fields{"reason": err.Error()})
		return nil, err
	}

	if err := uc.repo.Create(ctx, search); err != nil {
		ucLogger.Error("Repository failed to create saved search", err, nil)
		return nil, fmt.Errorf("failed to create saved search: %w", err)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"saved_search_id": search.ID})
	return search, nil
}
