package auth

import (
	"testing"
	"time"

	"github.com/asspharma/backend/internal/domain/identity"
	"github.com/asspharma/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-long-enough-32",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 168 * time.Hour,
		Issuer:                 "asspharma-test",
	})
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := testJWTService()
	pharmacyID := uuid.New()
	userID := uuid.New()

	pair, err := svc.Issue(pharmacyID, userID, "astou.diagne", identity.RoleTitulaire)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))

	t.Run("access token carries identity claims", func(t *testing.T) {
		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, pharmacyID.String(), claims.PharmacyID)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "astou.diagne", claims.Username)
		assert.Equal(t, string(identity.RoleTitulaire), claims.Role)
		assert.Equal(t, TokenTypeAccess, claims.TokenType)
	})

	t.Run("refresh token is not accepted as access token", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})

	t.Run("access token is not accepted as refresh token", func(t *testing.T) {
		_, err := svc.ValidateRefreshToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                 "another-secret-key-also-long-enough-32",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 168 * time.Hour,
			Issuer:                 "asspharma-test",
		})
		_, err := other.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestJWTService_Refresh(t *testing.T) {
	svc := testJWTService()
	pharmacyID := uuid.New()
	userID := uuid.New()

	pair, err := svc.Issue(pharmacyID, userID, "moussa.kane", identity.RoleCaissier)
	require.NoError(t, err)

	fresh, err := svc.Refresh(pair.RefreshToken, "moussa.kane", identity.RoleCaissier)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(fresh.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, pharmacyID.String(), claims.PharmacyID)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, string(identity.RoleCaissier), claims.Role)

	t.Run("refresh with an access token fails", func(t *testing.T) {
		_, err := svc.Refresh(pair.AccessToken, "moussa.kane", identity.RoleCaissier)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})
}

func TestJWTService_Expiry(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-long-enough-32",
		AccessTokenExpiration:  -1 * time.Minute, // already expired
		RefreshTokenExpiration: 168 * time.Hour,
		Issuer:                 "asspharma-test",
	})

	pair, err := svc.Issue(uuid.New(), uuid.New(), "astou.diagne", identity.RoleVendeur)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
