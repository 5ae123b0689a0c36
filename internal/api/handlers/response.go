package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/hbnb/hbnb-api/internal/infrastructure/auth"
	"github.com/hbnb/hbnb-api/internal/infrastructure/observability"
	apperrors "github.com/hbnb/hbnb-api/pkg/errors"
)

const maxBodyBytes = 1 << 20

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// statusFor maps an application error type onto an HTTP status
func statusFor(t apperrors.ErrorType) int {
	switch t {
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeValidation, apperrors.ErrorTypeConflict:
		return http.StatusBadRequest
	case apperrors.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrorTypeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondWithAppError writes err using its application error type. Internal
// errors are logged and replaced by a generic message.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Type == apperrors.ErrorTypeInternal {
		observability.LoggerFromContext(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if appErr.Type == apperrors.ErrorTypeNotFound {
		observability.LoggerFromContext(r.Context()).Debug().Str("path", r.URL.Path).Msg(appErr.Message)
	}
	respondWithError(w, statusFor(appErr.Type), appErr.Message)
}

// decodeJSON reads the request body into v. Unknown fields are ignored.
func decodeJSON(r *http.Request, v interface{}) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return apperrors.NewValidationError("invalid JSON body")
	}
	return nil
}

// authorize fails with 401 without claims and 403 when the caller is neither
// ownerID nor an admin
func authorize(r *http.Request, ownerID string) error {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return apperrors.NewUnauthorizedError("missing authorization token")
	}
	if !claims.CanActFor(ownerID) {
		return apperrors.NewForbiddenError("not allowed to act on this resource")
	}
	return nil
}
