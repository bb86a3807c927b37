package usecase

import (
	"context"
	"fmt"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/port"
)

type DeleteSavedSearchUseCase struct {
	repo port.SavedSearchRepositoryPort
}

func NewDeleteSavedSearchUseCase(repo port.SavedSearchRepositoryPort) *DeleteSavedSearchUseCase {
	return &DeleteSavedSearchUseCase{repo: repo}
}

// Execute мягко удаляет поиск владельца. Повторное удаление возвращает false без ошибки.
func (uc *DeleteSavedSearchUseCase) Execute(ctx context.Context, id, userID int64) (bool, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":        "DeleteSavedSearch",
		"saved_search_id": id,
		"user_id":         userID,
	})
	ucLogger.Info("Use case started", nil)

	deleted, err := uc.repo.Deactivate(ctx, id, userID)
	if err != nil {
		ucLogger.Error("Repository failed to deactivate saved search", err, nil)
		return false, fmt.Errorf("failed to delete saved search %d: %w", id, err)
	}
	if !deleted {
		ucLogger.Info("Nothing to delete", nil)
		return false, nil
	}

	ucLogger.Info("Use case finished successfully", nil)
	return true, nil
}
