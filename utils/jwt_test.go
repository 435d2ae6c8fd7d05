package utils

import (
	"testing"
	"time"

	"healthcart/config"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	tok, err := GenerateToken("user-1", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := ParseClaims(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseClaims_Rejects(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	expired, err := GenerateToken("user-1", "user", -time.Minute)
	require.NoError(t, err)
	_, err = ParseClaims(expired)
	assert.Error(t, err)

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(time.Hour).Unix()})
	forged, err := other.SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, err = ParseClaims(forged)
	assert.Error(t, err)

	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	signed, err := noSub.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = ParseClaims(signed)
	assert.Error(t, err)
}

func TestParseClaims_DefaultsRole(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-2", "exp": time.Now().Add(time.Hour).Unix()})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	claims, err := ParseClaims(signed)
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)
}

func TestCheckAdminKey_EmptyHash(t *testing.T) {
	config.AppConfig.AdminKeyHash = ""
	assert.False(t, CheckAdminKey("anything"))
}
