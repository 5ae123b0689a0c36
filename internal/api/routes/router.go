package routes

import (
	"net/http"

	"github.com/hbnb/hbnb-api/internal/api/handlers"
	"github.com/hbnb/hbnb-api/internal/api/middleware"
	"github.com/hbnb/hbnb-api/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	authHandler    *handlers.AuthHandler
	userHandler    *handlers.UserHandler
	countryHandler *handlers.CountryHandler
	cityHandler    *handlers.CityHandler
	amenityHandler *handlers.AmenityHandler
	placeHandler   *handlers.PlaceHandler
	reviewHandler  *handlers.ReviewHandler

	tokens         middleware.TokenValidator
	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	countryHandler *handlers.CountryHandler,
	cityHandler *handlers.CityHandler,
	amenityHandler *handlers.AmenityHandler,
	placeHandler *handlers.PlaceHandler,
	reviewHandler *handlers.ReviewHandler,
	tokens middleware.TokenValidator,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		authHandler:    authHandler,
		userHandler:    userHandler,
		countryHandler: countryHandler,
		cityHandler:    cityHandler,
		amenityHandler: amenityHandler,
		placeHandler:   placeHandler,
		reviewHandler:  reviewHandler,
		tokens:         tokens,
		allowedOrigins: allowedOrigins,
		metrics:        metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	authenticated := middleware.RequireAuth(r.tokens)
	admin := middleware.RequireAdmin(r.tokens)
	withAuth := func(h http.HandlerFunc) http.Handler { return authenticated(h) }
	withAdmin := func(h http.HandlerFunc) http.Handler { return admin(h) }

	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Session endpoints
	r.mux.HandleFunc("POST /login", r.authHandler.Login)
	r.mux.Handle("GET /protected", withAuth(r.authHandler.Protected))
	r.mux.Handle("GET /restricted", withAuth(r.authHandler.Restricted))

	// User endpoints
	r.mux.HandleFunc("GET /users", r.userHandler.ListUsers)
	r.mux.HandleFunc("POST /users", r.userHandler.CreateUser)
	r.mux.HandleFunc("GET /users/{id}", r.userHandler.GetUser)
	r.mux.Handle("PUT /users/{id}", withAuth(r.userHandler.UpdateUser))
	r.mux.Handle("DELETE /users/{id}", withAuth(r.userHandler.DeleteUser))
	r.mux.HandleFunc("GET /users/{id}/reviews", r.userHandler.ListUserReviews)

	// Country endpoints are read-only
	r.mux.HandleFunc("GET /countries", r.countryHandler.ListCountries)
	r.mux.HandleFunc("GET /countries/{code}", r.countryHandler.GetCountry)
	r.mux.HandleFunc("GET /countries/{code}/cities", r.countryHandler.ListCountryCities)

	// City endpoints
	r.mux.HandleFunc("GET /cities", r.cityHandler.ListCities)
	r.mux.HandleFunc("GET /cities/{id}", r.cityHandler.GetCity)
	r.mux.Handle("POST /cities", withAdmin(r.cityHandler.CreateCity))
	r.mux.Handle("PUT /cities/{id}", withAdmin(r.cityHandler.UpdateCity))
	r.mux.Handle("DELETE /cities/{id}", withAdmin(r.cityHandler.DeleteCity))

	// Amenity endpoints
	r.mux.HandleFunc("GET /amenities", r.amenityHandler.ListAmenities)
	r.mux.HandleFunc("GET /amenities/{id}", r.amenityHandler.GetAmenity)
	r.mux.Handle("POST /amenities", withAdmin(r.amenityHandler.CreateAmenity))
	r.mux.Handle("PUT /amenities/{id}", withAdmin(r.amenityHandler.UpdateAmenity))
	r.mux.Handle("DELETE /amenities/{id}", withAdmin(r.amenityHandler.DeleteAmenity))

	// Place endpoints
	r.mux.HandleFunc("GET /places", r.placeHandler.ListPlaces)
	r.mux.HandleFunc("GET /places/{id}", r.placeHandler.GetPlace)
	r.mux.Handle("POST /places", withAuth(r.placeHandler.CreatePlace))
	r.mux.Handle("PUT /places/{id}", withAuth(r.placeHandler.UpdatePlace))
	r.mux.Handle("DELETE /places/{id}", withAuth(r.placeHandler.DeletePlace))
	r.mux.HandleFunc("GET /places/{id}/reviews", r.placeHandler.ListPlaceReviews)
	r.mux.Handle("POST /places/{id}/reviews", withAuth(r.placeHandler.CreatePlaceReview))
	r.mux.HandleFunc("GET /places/{id}/amenities", r.placeHandler.ListPlaceAmenities)
	r.mux.Handle("POST /places/{id}/amenities/{amenity_id}", withAuth(r.placeHandler.LinkPlaceAmenity))
	r.mux.Handle("DELETE /places/{id}/amenities/{amenity_id}", withAuth(r.placeHandler.UnlinkPlaceAmenity))

	// Review endpoints. Reviews are created under /places/{id}/reviews.
	r.mux.HandleFunc("GET /reviews", r.reviewHandler.ListReviews)
	r.mux.HandleFunc("GET /reviews/{id}", r.reviewHandler.GetReview)
	r.mux.Handle("PUT /reviews/{id}", withAuth(r.reviewHandler.UpdateReview))
	r.mux.Handle("DELETE /reviews/{id}", withAuth(r.reviewHandler.DeleteReview))

	// Apply middleware in reverse order (last middleware wraps first).
	// Observability sits directly on the mux so it can read the matched pattern.
	var handler http.Handler = r.mux
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.RecoveryMiddleware(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)
	handler = middleware.LoggingMiddleware(handler)

	return handler
}
