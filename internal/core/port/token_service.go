package port

import (
	"context"

	"saved-search-service/internal/core/domain"
)

// TokenServicePort проверяет access-токены, выпущенные сервисом аутентификации.
type TokenServicePort interface {
	// ValidateToken возвращает domain.ErrTokenExpired или domain.ErrTokenInvalid.
	ValidateToken(ctx context.Context, token string) (*domain.Principal, error)
}
