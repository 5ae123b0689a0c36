package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/hbnb/hbnb-api/pkg/errors"
)

// Claims carried by an access token. Subject holds the user id.
type Claims struct {
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

// UserID returns the identity the token was issued to
func (c *Claims) UserID() string {
	return c.Subject
}

// TokenManager issues and verifies HS256 access tokens
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a token manager. ttl <= 0 means tokens never expire.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Generate signs a token for userID
func (m *TokenManager) Generate(userID string, isAdmin bool) (string, error) {
	now := m.now()
	claims := &Claims{
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if m.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", apperrors.NewInternalError("failed to sign token", err)
	}
	return signed, nil
}

// Validate parses tokenString and returns its claims. Any failure is reported
// as an unauthorized error.
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, &apperrors.AppError{Type: apperrors.ErrorTypeUnauthorized, Message: "invalid or expired token", Err: err}
	}
	if !token.Valid || claims.Subject == "" {
		return nil, apperrors.NewUnauthorizedError("invalid token")
	}

	return claims, nil
}

