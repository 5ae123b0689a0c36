package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/hbnb/hbnb-api/pkg/errors"
)

func TestBcryptHasher(t *testing.T) {
	h := &BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, h.Compare(hash, "s3cret"))
	assert.False(t, h.Compare(hash, "wrong"))
	assert.False(t, h.Compare("", "s3cret"))
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, err := m.Generate("user-1", true)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.True(t, claims.IsAdmin)
	require.NotNil(t, claims.ExpiresAt)
}

func TestTokenManager_RejectsForeignSignature(t *testing.T) {
	token, err := NewTokenManager("other-secret", time.Hour).Generate("user-1", false)
	require.NoError(t, err)

	_, err = NewTokenManager("test-secret", time.Hour).Validate(token)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m := NewTokenManager("test-secret", time.Minute)
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }

	token, err := m.Generate("user-1", false)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Validate(token)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
}

func TestTokenManager_RejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewTokenManager("test-secret", time.Hour).Validate(token)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("test-secret", time.Hour).Validate("not.a.token")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
}
