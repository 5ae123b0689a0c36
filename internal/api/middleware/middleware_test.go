package middleware

import (
	"compress/gzip"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hbnb/hbnb-api/internal/infrastructure/auth"
)

type stubValidator map[string]*auth.Claims

func (s stubValidator) Validate(token string) (*auth.Claims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, errors.New("bad token")
}

var validator = stubValidator{
	"user":  {RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"}},
	"admin": {IsAdmin: true, RegisteredClaims: jwt.RegisteredClaims{Subject: "root"}},
}

func echoSubject(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	io.WriteString(w, claims.Subject)
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(validator)(http.HandlerFunc(echoSubject))

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{name: "valid", header: "Bearer user", wantCode: http.StatusOK, wantBody: "u1"},
		{name: "lowercase scheme", header: "bearer user", wantCode: http.StatusOK, wantBody: "u1"},
		{name: "missing", header: "", wantCode: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic user", wantCode: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer forged", wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(validator)(http.HandlerFunc(echoSubject))

	for token, want := range map[string]int{"user": http.StatusForbidden, "admin": http.StatusOK, "forged": http.StatusUnauthorized} {
		req := httptest.NewRequest(http.MethodPost, "/amenities", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, token)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := LoggingMiddleware(RecoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/places", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestLoggingMiddleware_KeepsIncomingRequestID(t *testing.T) {
	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodDelete, "/reviews/1", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	restricted := CORSMiddleware([]string{"https://hbnb.example"})(next)
	req := httptest.NewRequest(http.MethodGet, "/places", nil)
	req.Header.Set("Origin", "https://hbnb.example")
	w := httptest.NewRecorder()
	restricted.ServeHTTP(w, req)
	assert.Equal(t, "https://hbnb.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/places", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	restricted.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	open := CORSMiddleware([]string{"*"})(next)
	req = httptest.NewRequest(http.MethodOptions, "/places", nil)
	req.Header.Set("Origin", "https://any.example")
	w = httptest.NewRecorder()
	open.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestETag_NotModified(t *testing.T) {
	handler := ETag(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `[{"id":"1"}]`)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/amenities", nil))
	require.Equal(t, http.StatusOK, w.Code)
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/amenities", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestCompression(t *testing.T) {
	handler := Compression(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"status":"ok"}`)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	gz, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, `{"status":"ok"}`, string(body))
}
