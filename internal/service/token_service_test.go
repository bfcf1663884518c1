package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-intervention-api/internal/models"
	appErrors "github.com/noah-isme/sma-intervention-api/pkg/errors"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService("secret", "sma-auth")

	token, err := svc.Issue("counselor-1", "Mr. Idris", models.RoleCounselor, time.Hour)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "counselor-1", claims.UserID)
	assert.Equal(t, models.RoleCounselor, claims.Role)
	assert.Equal(t, "Mr. Idris", models.ActorFromClaims(claims).Name)
}

func TestTokenServiceRejects(t *testing.T) {
	issuer := NewTokenService("secret", "sma-auth")
	expired, err := issuer.Issue("u-1", "User", models.RoleTeacher, -time.Minute)
	require.NoError(t, err)
	foreign, err := NewTokenService("secret", "other").Issue("u-1", "User", models.RoleTeacher, time.Hour)
	require.NoError(t, err)
	wrongKey, err := NewTokenService("other-secret", "sma-auth").Issue("u-1", "User", models.RoleTeacher, time.Hour)
	require.NoError(t, err)
	anonymous, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "sma-auth", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"expired":      expired,
		"wrong issuer": foreign,
		"wrong key":    wrongKey,
		"no user":      anonymous,
		"garbage":      "not-a-token",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := issuer.Validate(token)
			require.Error(t, err)
			assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
		})
	}
}
