package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"
	"saved-search-service/pkg/geo"
)

type FindMatchingPostsUseCase struct {
	searches port.SavedSearchRepositoryPort
	posts    port.PostRepositoryPort
	now      func() time.Time
}

func NewFindMatchingPostsUseCase(searches port.SavedSearchRepositoryPort, posts port.PostRepositoryPort) *FindMatchingPostsUseCase {
	return &FindMatchingPostsUseCase{searches: searches, posts: posts, now: time.Now}
}

// Execute отбирает кандидатов в хранилище (тип сделки, цена, ячейки geohash),
// затем применяет точный предикат и сортирует по расстоянию.
func (uc *FindMatchingPostsUseCase) Execute(ctx context.Context, savedSearchID, userID int64) ([]domain.MatchedPost, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":        "FindMatchingPosts",
		"saved_search_id": savedSearchID,
		"user_id":         userID,
	})
	ucLogger.Info("Use case started", nil)

	search, err := uc.searches.GetActiveForUser(ctx, savedSearchID, userID)
	if errors.Is(err, domain.ErrSavedSearchNotFound) {
		ucLogger.Warn("Saved search is missing, inactive or owned by another user", nil)
		return nil, err
	}
	if err != nil {
		ucLogger.Error("Repository failed to load saved search", err, nil)
		return nil, fmt.Errorf("failed to load saved search %d: %w", savedSearchID, err)
	}

	now := uc.now()
	filter := port.PostCandidateFilter{
		TransactionType: search.TransactionType,
		MinPrice:        search.MinPrice,
		MaxPrice:        search.MaxPrice,
		Now:             now,
		GeohashCells:    geo.CoveringCells(search.CenterLatitude, search.CenterLongitude, search.RadiusKm),
	}

	candidates, err := uc.posts.FindCandidates(ctx, filter)
	if err != nil {
		ucLogger.Error("Repository failed to load candidate posts", err, nil)
		return nil, fmt.Errorf("failed to load candidate posts: %w", err)
	}

	matches := domain.MatchPosts(search, candidates, now)

	ucLogger.Info("Use case finished successfully", port.Fields{
		"candidates": len(candidates),
		"matched":    len(matches),
		"geo_cells":  len(filter.GeohashCells),
	})
	return matches, nil
}
