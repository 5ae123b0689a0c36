package app

import (
	"net/http"

	"github.com/hbnb/hbnb-api/internal/api/handlers"
	"github.com/hbnb/hbnb-api/internal/api/routes"
	"github.com/hbnb/hbnb-api/internal/application/services"
	"github.com/hbnb/hbnb-api/internal/domain/repositories"
	"github.com/hbnb/hbnb-api/internal/infrastructure/auth"
	"github.com/hbnb/hbnb-api/internal/infrastructure/observability"
)

// NewHTTPHandler wires services and handlers over repo and returns the
// fully wrapped router
func NewHTTPHandler(
	repo repositories.Repository,
	hasher services.PasswordHasher,
	tokens *auth.TokenManager,
	allowedOrigins []string,
	metrics *observability.Metrics,
) http.Handler {
	users := services.NewUserService(repo, hasher)
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
		allowedOrigins,
		metrics,
	)
	return router.SetupRoutes()
}
