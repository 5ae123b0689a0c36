package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hbnb/hbnb-api/internal/adapters/memory"
	"github.com/hbnb/hbnb-api/internal/application/services"
	"github.com/hbnb/hbnb-api/internal/domain/entities"
	"github.com/hbnb/hbnb-api/internal/infrastructure/auth"
	apperrors "github.com/hbnb/hbnb-api/pkg/errors"
)

type fixture struct {
	ctx            context.Context
	users          *services.UserService
	countries      *services.CountryService
	cities         *services.CityService
	places         *services.PlaceService
	amenities      *services.AmenityService
	placeAmenities *services.PlaceAmenityService
	reviews        *services.ReviewService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	repo := memory.NewRepository()
	require.NoError(t, repo.Reload(ctx))

	return &fixture{
		ctx:            ctx,
		users:          services.NewUserService(repo, &auth.BcryptHasher{Cost: bcrypt.MinCost}),
		countries:      services.NewCountryService(repo),
		cities:         services.NewCityService(repo),
		places:         services.NewPlaceService(repo),
		amenities:      services.NewAmenityService(repo),
		placeAmenities: services.NewPlaceAmenityService(repo),
		reviews:        services.NewReviewService(repo),
	}
}

func (f *fixture) user(t *testing.T, email string) *entities.User {
	t.Helper()
	u, err := f.users.Create(f.ctx, services.UserInput{
		Email: email, FirstName: "Test", LastName: "User", Password: "secret",
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) city(t *testing.T, name string) *entities.City {
	t.Helper()
	c, err := f.cities.Create(f.ctx, services.CityInput{Name: name, CountryCode: "UY"})
	require.NoError(t, err)
	return c
}

func (f *fixture) place(t *testing.T, host *entities.User, city *entities.City) *entities.Place {
	t.Helper()
	p, err := f.places.Create(f.ctx, services.PlaceInput{
		Name: "Beach house", Address: "Rambla 1", HostID: host.ID, CityID: city.ID,
		Latitude: -34.9, Longitude: -56.1, PricePerNight: 120, MaxGuests: 4,
	})
	require.NoError(t, err)
	return p
}

func strPtr(s string) *string { return &s }

func assertType(t *testing.T, want apperrors.ErrorType, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, apperrors.TypeOf(err), "error: %v", err)
}

func TestUserService(t *testing.T) {
	t.Run("duplicate email always conflicts", func(t *testing.T) {
		f := newFixture(t)
		f.user(t, "ana@example.com")

		_, err := f.users.Create(f.ctx, services.UserInput{
			Email: "ANA@example.com ", FirstName: "Other", LastName: "Ana", Password: "x",
		})
		assertType(t, apperrors.ErrorTypeConflict, err)
	})

	t.Run("missing fields are validation errors", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.users.Create(f.ctx, services.UserInput{Email: "bob@example.com", FirstName: "Bob", LastName: "B"})
		assertType(t, apperrors.ErrorTypeValidation, err)

		_, err = f.users.Create(f.ctx, services.UserInput{Email: "not-an-email", FirstName: "Bob", LastName: "B", Password: "x"})
		assertType(t, apperrors.ErrorTypeValidation, err)
	})

	t.Run("password is stored hashed", func(t *testing.T) {
		f := newFixture(t)
		u := f.user(t, "ana@example.com")

		assert.NotEmpty(t, u.PasswordHash)
		assert.NotEqual(t, "secret", u.PasswordHash)
	})

	t.Run("get after create returns an equal record", func(t *testing.T) {
		f := newFixture(t)
		u := f.user(t, "ana@example.com")

		got, err := f.users.Get(f.ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u, got)
	})

	t.Run("partial update changes only supplied fields", func(t *testing.T) {
		f := newFixture(t)
		u := f.user(t, "ana@example.com")

		updated, err := f.users.Update(f.ctx, u.ID, services.UserPatch{FirstName: strPtr("Ana")})
		require.NoError(t, err)

		assert.Equal(t, "Ana", updated.FirstName)
		assert.Equal(t, u.LastName, updated.LastName)
		assert.Equal(t, u.Email, updated.Email)
		assert.Equal(t, u.PasswordHash, updated.PasswordHash)
		assert.Equal(t, u.CreatedAt, updated.CreatedAt)
		assert.True(t, updated.UpdatedAt.After(u.UpdatedAt))
	})

	t.Run("email change to a taken address conflicts", func(t *testing.T) {
		f := newFixture(t)
		f.user(t, "ana@example.com")
		bob := f.user(t, "bob@example.com")

		_, err := f.users.Update(f.ctx, bob.ID, services.UserPatch{Email: strPtr("ana@example.com")})
		assertType(t, apperrors.ErrorTypeConflict, err)

		_, err = f.users.Update(f.ctx, bob.ID, services.UserPatch{Email: strPtr("bob@example.com")})
		assert.NoError(t, err)
	})

	t.Run("update of unknown user is not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.users.Update(f.ctx, "missing", services.UserPatch{})
		assertType(t, apperrors.ErrorTypeNotFound, err)
	})

	t.Run("authenticate", func(t *testing.T) {
		f := newFixture(t)
		u := f.user(t, "ana@example.com")

		got, err := f.users.Authenticate(f.ctx, "Ana@Example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)

		_, err = f.users.Authenticate(f.ctx, "ana@example.com", "wrong")
		assertType(t, apperrors.ErrorTypeUnauthorized, err)

		_, err = f.users.Authenticate(f.ctx, "nobody@example.com", "secret")
		assertType(t, apperrors.ErrorTypeUnauthorized, err)
	})

	t.Run("delete removes reviews and refuses hosts", func(t *testing.T) {
		f := newFixture(t)
		host := f.user(t, "host@example.com")
		guest := f.user(t, "guest@example.com")
		place := f.place(t, host, f.city(t, "Montevideo"))

		review, err := f.reviews.Create(f.ctx, services.ReviewInput{
			PlaceID: place.ID, UserID: guest.ID, Comment: "Great", Rating: 5,
		})
		require.NoError(t, err)

		_, err = f.users.Delete(f.ctx, host.ID)
		assertType(t, apperrors.ErrorTypeConflict, err)

		removed, err := f.users.Delete(f.ctx, guest.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		_, err = f.reviews.Get(f.ctx, review.ID)
		assertType(t, apperrors.ErrorTypeNotFound, err)

		removed, err = f.users.Delete(f.ctx, guest.ID)
		require.NoError(t, err)
		assert.False(t, removed)
	})
}

func TestCountryService(t *testing.T) {
	f := newFixture(t)

	all, err := f.countries.GetAll(f.ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	uy, err := f.countries.GetByCode(f.ctx, "uy")
	require.NoError(t, err)
	assert.Equal(t, "Uruguay", uy.Name)

	_, err = f.countries.GetByCode(f.ctx, "ZZ")
	assertType(t, apperrors.ErrorTypeNotFound, err)

	_, err = f.countries.Create(f.ctx, services.CountryInput{Name: "Another Uruguay", Code: "uy"})
	assertType(t, apperrors.ErrorTypeConflict, err)

	_, err = f.countries.Create(f.ctx, services.CountryInput{Name: "Atlantis", Code: "A"})
	assertType(t, apperrors.ErrorTypeValidation, err)

	ar, err := f.countries.Create(f.ctx, services.CountryInput{Name: "Argentina", Code: "ar"})
	require.NoError(t, err)
	assert.Equal(t, "AR", ar.Code)

	f.city(t, "Montevideo")
	cities, err := f.countries.Cities(f.ctx, "UY")
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, "Montevideo", cities[0].Name)

	_, err = f.countries.Cities(f.ctx, "ZZ")
	assertType(t, apperrors.ErrorTypeNotFound, err)
}

func TestCityService(t *testing.T) {
	t.Run("country must exist", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.cities.Create(f.ctx, services.CityInput{Name: "Atlantis", CountryCode: "ZZ"})
		assertType(t, apperrors.ErrorTypeValidation, err)
	})

	t.Run("name unique within country", func(t *testing.T) {
		f := newFixture(t)
		f.city(t, "Montevideo")

		_, err := f.cities.Create(f.ctx, services.CityInput{Name: "montevideo", CountryCode: "UY"})
		assertType(t, apperrors.ErrorTypeConflict, err)

		_, err = f.cities.Create(f.ctx, services.CityInput{Name: "Montevideo", CountryCode: "US"})
		assert.NoError(t, err)
	})

	t.Run("update revalidates country", func(t *testing.T) {
		f := newFixture(t)
		c := f.city(t, "Salto")

		_, err := f.cities.Update(f.ctx, c.ID, services.CityPatch{CountryCode: strPtr("ZZ")})
		assertType(t, apperrors.ErrorTypeValidation, err)

		updated, err := f.cities.Update(f.ctx, c.ID, services.CityPatch{CountryCode: strPtr("us")})
		require.NoError(t, err)
		assert.Equal(t, "US", updated.CountryCode)
		assert.Equal(t, "Salto", updated.Name)
	})

	t.Run("delete refused while places reference it", func(t *testing.T) {
		f := newFixture(t)
		c := f.city(t, "Montevideo")
		p := f.place(t, f.user(t, "host@example.com"), c)

		_, err := f.cities.Delete(f.ctx, c.ID)
		assertType(t, apperrors.ErrorTypeConflict, err)

		_, err = f.places.Delete(f.ctx, p.ID)
		require.NoError(t, err)

		removed, err := f.cities.Delete(f.ctx, c.ID)
		require.NoError(t, err)
		assert.True(t, removed)
	})
}

func TestPlaceService(t *testing.T) {
	t.Run("unknown host or city is a validation error", func(t *testing.T) {
		f := newFixture(t)
		host := f.user(t, "host@example.com")
		city := f.city(t, "Montevideo")

		_, err := f.places.Create(f.ctx, services.PlaceInput{Name: "x", Address: "y", HostID: "missing", CityID: city.ID})
		assertType(t, apperrors.ErrorTypeValidation, err)

		_, err = f.places.Create(f.ctx, services.PlaceInput{Name: "x", Address: "y", HostID: host.ID, CityID: "missing"})
		assertType(t, apperrors.ErrorTypeValidation, err)
	})

	t.Run("valid references are echoed", func(t *testing.T) {
		f := newFixture(t)
		host := f.user(t, "host@example.com")
		city := f.city(t, "Montevideo")

		p := f.place(t, host, city)
		assert.Equal(t, host.ID, p.HostID)
		assert.Equal(t, city.ID, p.CityID)
	})

	t.Run("coordinates are range checked", func(t *testing.T) {
		f := newFixture(t)
		p := f.place(t, f.user(t, "host@example.com"), f.city(t, "Montevideo"))

		lat := 91.0
		_, err := f.places.Update(f.ctx, p.ID, services.PlacePatch{Latitude: &lat})
		assertType(t, apperrors.ErrorTypeValidation, err)

		got, err := f.places.Get(f.ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, -34.9, got.Latitude)
	})

	t.Run("partial update", func(t *testing.T) {
		f := newFixture(t)
		p := f.place(t, f.user(t, "host@example.com"), f.city(t, "Montevideo"))

		price := 90
		updated, err := f.places.Update(f.ctx, p.ID, services.PlacePatch{PricePerNight: &price})
		require.NoError(t, err)
		assert.Equal(t, 90, updated.PricePerNight)
		assert.Equal(t, p.Name, updated.Name)
		assert.Equal(t, p.MaxGuests, updated.MaxGuests)
		assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))
	})

	t.Run("delete cascades to reviews and links", func(t *testing.T) {
		f := newFixture(t)
		host := f.user(t, "host@example.com")
		guest := f.user(t, "guest@example.com")
		p := f.place(t, host, f.city(t, "Montevideo"))
		wifi, err := f.amenities.Create(f.ctx, services.AmenityInput{Name: "Wifi"})
		require.NoError(t, err)
		link, err := f.placeAmenities.Link(f.ctx, p.ID, wifi.ID)
		require.NoError(t, err)
		review, err := f.reviews.Create(f.ctx, services.ReviewInput{PlaceID: p.ID, UserID: guest.ID, Comment: "ok", Rating: 3})
		require.NoError(t, err)

		removed, err := f.places.Delete(f.ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		_, err = f.places.Get(f.ctx, p.ID)
		assertType(t, apperrors.ErrorTypeNotFound, err)
		_, err = f.reviews.Get(f.ctx, review.ID)
		assertType(t, apperrors.ErrorTypeNotFound, err)
		_, err = f.placeAmenities.Get(f.ctx, link.ID)
		assertType(t, apperrors.ErrorTypeNotFound, err)
		_, err = f.amenities.Get(f.ctx, wifi.ID)
		assert.NoError(t, err)

		removed, err = f.places.Delete(f.ctx, p.ID)
		require.NoError(t, err)
		assert.False(t, removed)
	})
}

func TestAmenityService(t *testing.T) {
	f := newFixture(t)

	wifi, err := f.amenities.Create(f.ctx, services.AmenityInput{Name: "Wifi"})
	require.NoError(t, err)

	_, err = f.amenities.Create(f.ctx, services.AmenityInput{Name: "wifi"})
	assertType(t, apperrors.ErrorTypeConflict, err)

	_, err = f.amenities.Create(f.ctx, services.AmenityInput{Name: " "})
	assertType(t, apperrors.ErrorTypeValidation, err)

	renamed, err := f.amenities.Update(f.ctx, wifi.ID, services.AmenityPatch{Name: strPtr("Fast wifi")})
	require.NoError(t, err)
	assert.Equal(t, "Fast wifi", renamed.Name)

	p := f.place(t, f.user(t, "host@example.com"), f.city(t, "Montevideo"))
	_, err = f.placeAmenities.Link(f.ctx, p.ID, wifi.ID)
	require.NoError(t, err)

	removed, err := f.amenities.Delete(f.ctx, wifi.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	links, err := f.placeAmenities.GetAll(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestPlaceAmenityService(t *testing.T) {
	f := newFixture(t)
	p := f.place(t, f.user(t, "host@example.com"), f.city(t, "Montevideo"))
	wifi, err := f.amenities.Create(f.ctx, services.AmenityInput{Name: "Wifi"})
	require.NoError(t, err)
	pool, err := f.amenities.Create(f.ctx, services.AmenityInput{Name: "Pool"})
	require.NoError(t, err)

	_, err = f.placeAmenities.Link(f.ctx, p.ID, "missing")
	assertType(t, apperrors.ErrorTypeValidation, err)

	_, err = f.placeAmenities.Link(f.ctx, p.ID, pool.ID)
	require.NoError(t, err)
	_, err = f.placeAmenities.Link(f.ctx, p.ID, wifi.ID)
	require.NoError(t, err)

	_, err = f.placeAmenities.Link(f.ctx, p.ID, wifi.ID)
	assertType(t, apperrors.ErrorTypeConflict, err)

	amenities, err := f.placeAmenities.ListAmenities(f.ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, amenities, 2)
	assert.Equal(t, "Pool", amenities[0].Name)
	assert.Equal(t, "Wifi", amenities[1].Name)

	_, err = f.placeAmenities.ListAmenities(f.ctx, "missing")
	assertType(t, apperrors.ErrorTypeNotFound, err)

	removed, err := f.placeAmenities.Unlink(f.ctx, p.ID, pool.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = f.placeAmenities.Unlink(f.ctx, p.ID, pool.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestReviewService(t *testing.T) {
	f := newFixture(t)
	host := f.user(t, "host@example.com")
	guest := f.user(t, "guest@example.com")
	p := f.place(t, host, f.city(t, "Montevideo"))

	_, err := f.reviews.Create(f.ctx, services.ReviewInput{PlaceID: "missing", UserID: guest.ID, Comment: "x", Rating: 4})
	assertType(t, apperrors.ErrorTypeValidation, err)

	_, err = f.reviews.Create(f.ctx, services.ReviewInput{PlaceID: p.ID, UserID: "missing", Comment: "x", Rating: 4})
	assertType(t, apperrors.ErrorTypeValidation, err)

	_, err = f.reviews.Create(f.ctx, services.ReviewInput{PlaceID: p.ID, UserID: guest.ID, Comment: "x", Rating: 6})
	assertType(t, apperrors.ErrorTypeValidation, err)

	review, err := f.reviews.Create(f.ctx, services.ReviewInput{PlaceID: p.ID, UserID: guest.ID, Comment: "Lovely", Rating: 4.5})
	require.NoError(t, err)

	byPlace, err := f.reviews.ListByPlace(f.ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, byPlace, 1)

	byUser, err := f.reviews.ListByUser(f.ctx, host.ID)
	require.NoError(t, err)
	assert.Empty(t, byUser)

	_, err = f.reviews.ListByUser(f.ctx, "missing")
	assertType(t, apperrors.ErrorTypeNotFound, err)

	rating := 2.0
	updated, err := f.reviews.Update(f.ctx, review.ID, services.ReviewPatch{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 2.0, updated.Rating)
	assert.Equal(t, "Lovely", updated.Comment)

	removed, err := f.reviews.Delete(f.ctx, review.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = f.reviews.Delete(f.ctx, review.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}
