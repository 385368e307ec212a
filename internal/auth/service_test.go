// File: internal/auth/service_test.go
package auth

import (
	"testing"
	"time"

	"vehicle_service_backend/internal/common"
	"vehicle_service_backend/internal/config"
	"vehicle_service_backend/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestJWTService(t *testing.T, secret string) shared.TokenService {
	t.Helper()
	cfg := &config.Config{
		JWTSecretKey:          secret,
		JWTAccessTokenExpiry:  15 * time.Minute,
		JWTRefreshTokenExpiry: 7 * 24 * time.Hour,
	}
	svc, err := NewJWTService(cfg, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func testUser() *shared.User {
	return &shared.User{
		ID:    uuid.New(),
		Email: "mechanic@example.com",
		Role:  common.RoleServicer,
	}
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc := newTestJWTService(t, "test-secret-key")
	user := testUser()

	tokenString, expiresAt, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, common.RoleServicer, claims.Role)
	assert.Equal(t, "vehicle_service_backend", claims.Issuer)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := newTestJWTService(t, "secret-one")
	other := newTestJWTService(t, "secret-two")

	tokenString, _, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = other.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestParseRefreshTokenRejectsAccessToken(t *testing.T) {
	svc := newTestJWTService(t, "test-secret-key")
	user := testUser()

	accessToken, _, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = svc.ParseRefreshToken(accessToken)
	assert.Error(t, err, "an access token must not be usable as a refresh token")

	refreshToken, _, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)

	claims, err := svc.ParseRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestEphemeralSecretGeneratedWhenUnset(t *testing.T) {
	svc := newTestJWTService(t, "")
	tokenString, _, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(tokenString)
	assert.NoError(t, err, "tokens signed with the ephemeral secret must validate in-process")
}
