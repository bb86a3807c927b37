package usecases_port

import (
	"context"

	"saved-search-service/internal/core/domain"
)

type ApprovePostUseCasePort interface {
	Execute(ctx context.Context, postID int64) (*domain.Post, error)
}

type RejectPostUseCasePort interface {
	Execute(ctx context.Context, postID int64) (*domain.Post, error)
}
