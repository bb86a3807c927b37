package rest

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"
)

type contextKey string

const principalKey = contextKey("principal")

// AuthMiddleware определяет пользователя запроса: по JWT из Authorization или,
// если сервис стоит за api-gateway, по заголовкам X-User-ID / X-User-Role.
type AuthMiddleware struct {
	tokens       port.TokenServicePort
	trustGateway bool
}

func NewAuthMiddleware(tokens port.TokenServicePort, trustGateway bool) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, trustGateway: trustGateway}
}

func principalFromContext(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(*domain.Principal)
	return p, ok && p != nil
}

// Authenticate кладет domain.Principal в контекст запроса.
func (am *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := contextkeys.LoggerFromContext(r.Context())

		principal, status, message := am.resolve(r)
		if principal == nil {
			logger.Warn("Authentication failed", port.Fields{"reason": message})
			WriteJSONError(w, status, message)
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		ctx = contextkeys.ContextWithLogger(ctx, logger.WithFields(port.Fields{"user_id": principal.UserID}))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (am *AuthMiddleware) resolve(r *http.Request) (*domain.Principal, int, string) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || am.tokens == nil {
			return nil, http.StatusUnauthorized, "Invalid token format"
		}
		principal, err := am.tokens.ValidateToken(r.Context(), tokenString)
		if err != nil {
			return nil, http.StatusUnauthorized, err.Error()
		}
		return principal, 0, ""
	}

	if am.trustGateway {
		userIDStr := r.Header.Get("X-User-ID")
		if userIDStr == "" {
			return nil, http.StatusUnauthorized, "Authentication error: User ID header is missing"
		}
		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			return nil, http.StatusUnauthorized, "Authentication error: Invalid User ID format"
		}
		return &domain.Principal{UserID: userID, Role: r.Header.Get("X-User-Role")}, 0, ""
	}

	return nil, http.StatusUnauthorized, "Authorization header required"
}

// RequireRole пропускает только пользователей с нужной ролью. Ставится после Authenticate.
func (am *AuthMiddleware) RequireRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := principalFromContext(r.Context())
			if !ok {
				WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if principal.Role != requiredRole {
				WriteJSONError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
