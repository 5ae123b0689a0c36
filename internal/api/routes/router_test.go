package routes_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hbnb/hbnb-api/internal/adapters/cache"
	"github.com/hbnb/hbnb-api/internal/adapters/instrumented"
	"github.com/hbnb/hbnb-api/internal/adapters/memory"
	"github.com/hbnb/hbnb-api/internal/api/handlers"
	"github.com/hbnb/hbnb-api/internal/api/routes"
	"github.com/hbnb/hbnb-api/internal/application/services"
	"github.com/hbnb/hbnb-api/internal/infrastructure/auth"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	memoryCache := cache.NewMemoryAdapter(1000)
	t.Cleanup(memoryCache.Stop)

	repo := instrumented.NewRepository(
		cache.NewCachedRepository(memory.NewRepository(), memoryCache, time.Minute, nil),
		"memory", nil,
	)
	require.NoError(t, repo.Reload(context.Background()))

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	users := services.NewUserService(repo, &auth.BcryptHasher{Cost: bcrypt.MinCost})
	reviews := services.NewReviewService(repo)
	places := services.NewPlaceService(repo)

	router := routes.NewRouter(
		handlers.NewAuthHandler(users, tokens),
		handlers.NewUserHandler(users, reviews),
		handlers.NewCountryHandler(services.NewCountryService(repo)),
		handlers.NewCityHandler(services.NewCityService(repo)),
		handlers.NewAmenityHandler(services.NewAmenityService(repo)),
		handlers.NewPlaceHandler(places, reviews, services.NewPlaceAmenityService(repo)),
		handlers.NewReviewHandler(reviews),
		tokens,
		[]string{"*"},
		nil,
	)
	return &testServer{t: t, handler: router.SetupRoutes()}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var payload string
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		payload = string(raw)
	}

	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s *testServer) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	s.t.Helper()
	var out map[string]interface{}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *testServer) createUser(email string, isAdmin bool) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/users", "", map[string]interface{}{
		"email": email, "first_name": "Ana", "last_name": "Diaz", "password": "secret", "is_admin": isAdmin,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return s.decode(w)["id"].(string)
}

func (s *testServer) login(email string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/login", "", map[string]string{"email": email, "password": "secret"})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return s.decode(w)["access_token"].(string)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestUsersAndLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/users", "", map[string]string{
		"email": "ana@hbnb.io", "first_name": "Ana", "last_name": "Diaz", "password": "secret",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	id := s.decode(w)["id"].(string)

	w = s.do(http.MethodPost, "/users", "", map[string]string{
		"email": "ANA@hbnb.io", "first_name": "Ana", "last_name": "Diaz", "password": "secret",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/users/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	w = s.do(http.MethodPost, "/login", "", map[string]string{"email": "ana@hbnb.io", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := s.login("ana@hbnb.io")
	w = s.do(http.MethodGet, "/protected", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, s.decode(w)["logged_in_as"])

	w = s.do(http.MethodGet, "/restricted", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodGet, "/protected", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserUpdateRequiresOwnerOrAdmin(t *testing.T) {
	s := newTestServer(t)
	ana := s.createUser("ana@hbnb.io", false)
	s.createUser("bob@hbnb.io", false)
	s.createUser("root@hbnb.io", true)

	w := s.do(http.MethodPut, "/users/"+ana, s.login("bob@hbnb.io"), map[string]string{"first_name": "Hacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPut, "/users/"+ana, s.login("ana@hbnb.io"), map[string]string{"first_name": "Anita"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Anita", s.decode(w)["first_name"])

	w = s.do(http.MethodPut, "/users/"+ana, s.login("root@hbnb.io"), map[string]string{"last_name": "Perez"})
	require.Equal(t, http.StatusOK, w.Code)
	body := s.decode(w)
	assert.Equal(t, "Anita", body["first_name"])
	assert.Equal(t, "Perez", body["last_name"])
}

func TestCountriesAreSeeded(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/countries/uy", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "UY", s.decode(w)["code"])

	w = s.do(http.MethodGet, "/countries/ZZ", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/countries", "", map[string]string{"code": "AR", "name": "Argentina"})
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestAmenitiesAdminOnly(t *testing.T) {
	s := newTestServer(t)
	s.createUser("ana@hbnb.io", false)
	s.createUser("root@hbnb.io", true)
	user, admin := s.login("ana@hbnb.io"), s.login("root@hbnb.io")

	w := s.do(http.MethodPost, "/amenities", user, map[string]string{"name": "Wifi"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/amenities", admin, map[string]string{"name": "Wifi"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := s.decode(w)["id"].(string)

	w = s.do(http.MethodDelete, "/amenities/"+id, user, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, "/amenities/"+id, admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/amenities/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/amenities/"+id, admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlaceLifecycle(t *testing.T) {
	s := newTestServer(t)
	host := s.createUser("host@hbnb.io", false)
	guest := s.createUser("guest@hbnb.io", false)
	s.createUser("root@hbnb.io", true)
	hostToken, guestToken, admin := s.login("host@hbnb.io"), s.login("guest@hbnb.io"), s.login("root@hbnb.io")

	w := s.do(http.MethodPost, "/cities", admin, map[string]string{"name": "Montevideo", "country_code": "UY"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	city := s.decode(w)["id"].(string)

	place := map[string]interface{}{
		"name": "Rambla loft", "address": "Rambla 1", "city_id": city,
		"latitude": -34.9, "longitude": -56.2, "price_per_night": 80, "max_guests": 2,
	}

	w = s.do(http.MethodPost, "/places", "", place)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	place["city_id"] = "missing"
	w = s.do(http.MethodPost, "/places", hostToken, place)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	place["city_id"] = city
	w = s.do(http.MethodPost, "/places", hostToken, place)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := s.decode(w)
	placeID := created["id"].(string)
	assert.Equal(t, host, created["host_id"])
	assert.Equal(t, city, created["city_id"])

	w = s.do(http.MethodPut, "/places/"+placeID, guestToken, map[string]string{"name": "Mine now"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/amenities", admin, map[string]string{"name": "Pool"})
	require.Equal(t, http.StatusCreated, w.Code)
	amenity := s.decode(w)["id"].(string)

	w = s.do(http.MethodPost, "/places/"+placeID+"/amenities/"+amenity, hostToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = s.do(http.MethodPost, "/places/"+placeID+"/amenities/"+amenity, hostToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/places/"+placeID+"/amenities", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pool")

	w = s.do(http.MethodPost, "/places/"+placeID+"/reviews", guestToken, map[string]interface{}{
		"user_id": host, "comment": "Great", "rating": 5,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/places/"+placeID+"/reviews", guestToken, map[string]interface{}{
		"user_id": guest, "comment": "Great", "rating": 9,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/places/"+placeID+"/reviews", guestToken, map[string]interface{}{
		"user_id": guest, "comment": "Great", "rating": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	review := s.decode(w)["id"].(string)

	w = s.do(http.MethodPut, "/reviews/"+review, hostToken, map[string]interface{}{"rating": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/users/"+guest+"/reviews", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), review)

	w = s.do(http.MethodDelete, "/cities/"+city, admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, "/places/"+placeID, hostToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/reviews/"+review, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(http.MethodGet, "/places/"+placeID+"/amenities", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(http.MethodDelete, "/cities/"+city, admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
