package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/intake-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	user := &domain.User{
		Username:     "carol",
		Role:         domain.RoleAdmin,
		AllowedTypes: "COMPLAINT,SUGGESTION",
	}

	token, expiresAt, err := tm.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "carol", claims.Username)
	require.Equal(t, domain.RoleAdmin, claims.Role)
	require.Equal(t, "COMPLAINT,SUGGESTION", claims.AllowedTypes)
}

func TestTokenWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	token, _, err := tm.GenerateToken(&domain.User{Username: "carol", Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = NewTokenManager("other", 60).ParseToken(token)
	require.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	tm.ttl = -time.Minute

	token, _, err := tm.GenerateToken(&domain.User{Username: "carol", Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	require.Error(t, err)
}
