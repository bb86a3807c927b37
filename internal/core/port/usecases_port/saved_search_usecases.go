package usecases_port

import (
	"context"

	"saved-search-service/internal/core/domain"
)

type CreateSavedSearchUseCasePort interface {
	Execute(ctx context.Context, params domain.NewSavedSearchParams) (*domain.SavedSearch, error)
}

type ListSavedSearchesUseCasePort interface {
	Execute(ctx context.Context, userID int64) ([]domain.SavedSearch, error)
}

type DeleteSavedSearchUseCasePort interface {
	// Execute возвращает false, если удалять было нечего.
	Execute(ctx context.Context, id, userID int64) (bool, error)
}

type FindMatchingPostsUseCasePort interface {
	// Execute возвращает объявления по возрастанию расстояния.
	Execute(ctx context.Context, savedSearchID, userID int64) ([]domain.MatchedPost, error)
}

type NotifyMatchingSearchesUseCasePort interface {
	// Execute вызывается после перехода объявления в статус Active.
	Execute(ctx context.Context, postID int64) error
}
