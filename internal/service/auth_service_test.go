package service

import (
	"errors"
	"testing"
	"time"

	"ecommerce-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	s := &AuthService{
		jwtSecret: []byte("test-secret"),
		tokenTTL:  time.Hour,
	}

	user := &models.User{
		ID:    42,
		Email: "jane@example.com",
		Role:  models.RoleUser,
	}

	token, err := s.issueToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := s.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := &AuthService{jwtSecret: []byte("secret-a"), tokenTTL: time.Hour}
	verifier := &AuthService{jwtSecret: []byte("secret-b"), tokenTTL: time.Hour}

	token, err := issuer.issueToken(&models.User{ID: 1, Email: "a@b.c", Role: models.RoleUser})
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestParseTokenRejectsExpired(t *testing.T) {
	s := &AuthService{jwtSecret: []byte("test-secret"), tokenTTL: -time.Minute}

	token, err := s.issueToken(&models.User{ID: 1, Email: "a@b.c", Role: models.RoleUser})
	require.NoError(t, err)

	_, err = s.ParseToken(token)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	s := &AuthService{jwtSecret: []byte("test-secret"), tokenTTL: time.Hour}

	_, err := s.ParseToken("not.a.token")
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestRegister(t *testing.T) {
	t.Skip("Integration test - requires database")
}
