package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, CheckPasswordHash("wrong password", hash))
	assert.False(t, CheckPasswordHash("correct horse battery staple", "not-a-bcrypt-hash"))
}

func TestNewAccessToken_RoundTrip(t *testing.T) {
	userID := uuid.New()
	secret := "test-secret"

	tokenString, err := NewAccessToken(userID, secret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestNewAccessToken_WrongSecretFailsValidation(t *testing.T) {
	tokenString, err := NewAccessToken(uuid.New(), "secret-a", time.Hour)
	require.NoError(t, err)

	claims := &CustomClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret-b"), nil
	})
	assert.Error(t, err)
}

func TestNewAccessToken_Expired(t *testing.T) {
	tokenString, err := NewAccessToken(uuid.New(), "secret", -time.Minute)
	require.NoError(t, err)

	claims := &CustomClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
