package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmorales-dev/fleet-panel-api/internal/models"
	"github.com/dmorales-dev/fleet-panel-api/pkg/config"
	appErrors "github.com/dmorales-dev/fleet-panel-api/pkg/errors"
)

func signToken(t *testing.T, method jwt.SigningMethod, secret string, expiresIn time.Duration) string {
	t.Helper()
	claims := &models.JWTClaims{
		UserID: "u1",
		Role:   models.RoleManager,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateTokenAcceptsValidToken(t *testing.T) {
	svc := NewAuthService(config.JWTConfig{Secret: "test-secret"})

	claims, err := svc.ValidateToken(signToken(t, jwt.SigningMethodHS256, "test-secret", time.Hour))

	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleManager, claims.Role)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := NewAuthService(config.JWTConfig{Secret: "test-secret"})

	_, err := svc.ValidateToken(signToken(t, jwt.SigningMethodHS256, "other-secret", time.Hour))

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsExpiredToken(t *testing.T) {
	svc := NewAuthService(config.JWTConfig{Secret: "test-secret"})

	_, err := svc.ValidateToken(signToken(t, jwt.SigningMethodHS256, "test-secret", -time.Minute))

	require.Error(t, err)
}

func TestValidateTokenRejectsUnexpectedMethod(t *testing.T) {
	svc := NewAuthService(config.JWTConfig{Secret: "test-secret"})

	_, err := svc.ValidateToken(signToken(t, jwt.SigningMethodHS512, "test-secret", time.Hour))

	require.Error(t, err)
}
