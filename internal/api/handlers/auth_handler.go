package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/hbnb/hbnb-api/internal/domain/entities"
	"github.com/hbnb/hbnb-api/internal/infrastructure/auth"
	apperrors "github.com/hbnb/hbnb-api/pkg/errors"
)

// Authenticator verifies user credentials
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*entities.User, error)
}

// TokenIssuer signs access tokens
type TokenIssuer interface {
	Generate(userID string, isAdmin bool) (string, error)
}

// AuthHandler handles login and the token probe endpoints
type AuthHandler struct {
	users  Authenticator
	tokens TokenIssuer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users Authenticator, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondWithAppError(w, r, apperrors.NewValidationError("missing field: email or password"))
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	token, err := h.tokens.Generate(user.ID, user.IsAdmin)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"access_token": token})
}

// Protected handles GET /protected
func (h *AuthHandler) Protected(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondWithAppError(w, r, apperrors.NewUnauthorizedError("missing authorization token"))
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"logged_in_as": claims.Subject})
}

// Restricted handles GET /restricted
func (h *AuthHandler) Restricted(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondWithAppError(w, r, apperrors.NewUnauthorizedError("missing authorization token"))
		return
	}
	if !claims.IsAdmin {
		respondWithAppError(w, r, apperrors.NewForbiddenError("administration rights required"))
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"logged_in_as": claims.Subject,
		"is_admin":     true,
	})
}
