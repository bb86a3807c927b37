package token_adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService проверяет HS256-токены, подписанные общим секретом с сервисом аутентификации.
type TokenService struct {
	signingKey []byte
	issuer     string
}

func NewTokenService(signingKey string) (*TokenService, error) {
	if signingKey == "" {
		return nil, fmt.Errorf("JWT signing key cannot be empty")
	}
	return &TokenService{signingKey: []byte(signingKey), issuer: "auth-service"}, nil
}

type jwtCustomClaims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken выпускает токен. Нужен для локальной разработки и тестов,
// в бою токены выпускает сервис аутентификации.
func (s *TokenService) GenerateToken(principal domain.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &jwtCustomClaims{
		UserID: principal.UserID,
		Role:   principal.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) ValidateToken(ctx context.Context, tokenString string) (*domain.Principal, error) {
	serviceLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "TokenService",
		"method":    "ValidateToken",
	})

	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(5*time.Second))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			serviceLogger.Warn("Token has expired", nil)
			return nil, domain.ErrTokenExpired
		}
		serviceLogger.Warn("Invalid token format or signature", port.Fields{"error": err.Error()})
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		serviceLogger.Warn("Token claims are incomplete", nil)
		return nil, domain.ErrTokenInvalid
	}

	serviceLogger.Debug("Token validated successfully.", port.Fields{"user_id": claims.UserID, "role": claims.Role})
	return &domain.Principal{UserID: claims.UserID, Role: claims.Role}, nil
}
