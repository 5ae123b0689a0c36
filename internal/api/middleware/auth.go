package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hbnb/hbnb-api/internal/infrastructure/auth"
	"github.com/hbnb/hbnb-api/internal/infrastructure/observability"
)

// TokenValidator verifies a bearer token and returns its claims
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// verified claims on the request context
func RequireAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "missing authorization token")
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				observability.LoggerFromContext(r.Context()).Debug().Err(err).Msg("Rejected token")
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// RequireAdmin behaves like RequireAuth and additionally rejects callers
// whose token does not carry the admin flag
func RequireAdmin(validator TokenValidator) func(http.Handler) http.Handler {
	authenticate := RequireAuth(validator)
	return func(next http.Handler) http.Handler {
		return authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, _ := auth.ClaimsFromContext(r.Context())
			if !claims.IsAdmin {
				writeError(w, http.StatusForbidden, "administration rights required")
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
