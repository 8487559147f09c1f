// internal/auth/auth_test.go
package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	s := NewService("test-secret")

	hash, err := s.HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, s.CheckPassword(hash, "password123"))
	assert.False(t, s.CheckPassword(hash, "wrong-password"))
}

func TestIssueAndVerifyToken(t *testing.T) {
	s := NewService("test-secret")

	token, err := s.IssueToken("user1@test.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	email, err := s.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user1@test.com", email)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewService("secret-a")
	verifier := NewService("secret-b")

	token, err := issuer.IssueToken("user1@test.com")
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	s := NewService("test-secret")

	_, err := s.VerifyToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
