package usecase

import (
	"context"
	"fmt"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"
)

type ListSavedSearchesUseCase struct {
	repo port.SavedSearchRepositoryPort
}

func NewListSavedSearchesUseCase(repo port.SavedSearchRepositoryPort) *ListSavedSearchesUseCase {
	return &ListSavedSearchesUseCase{repo: repo}
}

func (uc *ListSavedSearchesUseCase) Execute(ctx context.Context, userID int64) ([]domain.SavedSearch, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "ListSavedSearches",
		"user_id":  userID,
	})

	searches, err := uc.repo.ListActiveByUser(ctx, userID)
	if err != nil {
		ucLogger.Error("Repository failed to list saved searches", err, nil)
		return nil, fmt.Errorf("failed to list saved searches: %w", err)
	}
	if searches == nil {
		searches = []domain.SavedSearch{}
	}

	ucLogger.Debug("Saved searches listed", port.Fields{"count": len(searches)})
	return searches, nil
}
