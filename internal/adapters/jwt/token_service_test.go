package token_adapter

import (
	"context"
	"testing"
	"time"

	"saved-search-service/internal/core/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc, err := NewTokenService("secret")
	require.NoError(t, err)

	token, err := svc.GenerateToken(domain.Principal{UserID: 12, Role: domain.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	principal, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, &domain.Principal{UserID: 12, Role: "Admin"}, principal)
}

func TestTokenService_Expired(t *testing.T) {
	svc, _ := NewTokenService("secret")
	token, err := svc.GenerateToken(domain.Principal{UserID: 12, Role: "User"}, -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestTokenService_Invalid(t *testing.T) {
	svc, _ := NewTokenService("secret")
	other, _ := NewTokenService("other-secret")

	foreign, err := other.GenerateToken(domain.Principal{UserID: 1, Role: "User"}, time.Hour)
	require.NoError(t, err)

	noUser, err := svc.GenerateToken(domain.Principal{Role: "User"}, time.Hour)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": 1, "role": "Admin"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"no user id":   noUser,
		"alg none":     unsigned,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(context.Background(), token)
			assert.ErrorIs(t, err, domain.ErrTokenInvalid)
		})
	}
}

func TestNewTokenService_EmptyKey(t *testing.T) {
	_, err := NewTokenService("")
	assert.Error(t, err)
}
