package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hbnb/hbnb-api/internal/domain/entities"
	"github.com/hbnb/hbnb-api/internal/infrastructure/clients/sqldb"
	apperrors "github.com/hbnb/hbnb-api/pkg/errors"
)

func setupMockDB(t *testing.T, opts ...Option) (*Adapter, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewAdapter(sqldb.NewFromDB(db, sqldb.DriverPostgres), opts...), mock
}

func q(sql string) string {
	return regexp.QuoteMeta(sql)
}

func TestAdapter_Get(t *testing.T) {
	adapter, mock := setupMockDB(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("UTC+2", 2*3600))

	mock.ExpectQuery(q(`SELECT "id", "created_at", "updated_at", "name" FROM "amenity" WHERE ("id" = $1)`)).
		WithArgs("a-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "name"}).
			AddRow("a-1", created, created, "Wifi"))

	got, err := adapter.Get(context.Background(), entities.KindAmenity, "a-1")
	require.NoError(t, err)

	amenity, ok := got.(*entities.Amenity)
	require.True(t, ok)
	assert.Equal(t, "Wifi", amenity.Name)
	assert.Equal(t, time.UTC, amenity.CreatedAt.Location())
	assert.True(t, created.Equal(amenity.CreatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_Get_AbsentIsNotAnError(t *testing.T) {
	adapter, mock := setupMockDB(t)

	mock.ExpectQuery(q(`FROM "user" WHERE ("id" = $1)`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := adapter.Get(context.Background(), entities.KindUser, "missing")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_GetAll_Places(t *testing.T) {
	adapter, mock := setupMockDB(t)
	now := time.Now().UTC()

	cols := []string{
		"id", "created_at", "updated_at", "name", "description", "address", "latitude", "longitude",
		"host_id", "city_id", "price_per_night", "number_of_rooms", "number_of_bathrooms", "max_guests",
	}
	mock.ExpectQuery(q(`FROM "place" ORDER BY "created_at" ASC, "id" ASC`)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("p-1", now, now, "Cottage", "Cozy", "1 Lane", 34.05, -118.24, "u-1", "c-1", 100, 2, 1, 4).
			AddRow("p-2", now, now, "Loft", "", "2 Road", -34.9, -56.16, "u-2", "c-1", 80, 1, 1, 2))

	all, err := adapter.GetAll(context.Background(), entities.KindPlace)
	require.NoError(t, err)
	require.Len(t, all, 2)

	first := all[0].(*entities.Place)
	assert.Equal(t, "p-1", first.ID)
	assert.Equal(t, "u-1", first.HostID)
	assert.Equal(t, 100, first.PricePerNight)
	assert.Equal(t, 4, first.MaxGuests)
	assert.Equal(t, "p-2", all[1].GetID())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_Save_RunsInTransaction(t *testing.T) {
	adapter, mock := setupMockDB(t)
	amenity := &entities.Amenity{Base: entities.NewBase(time.Now()), Name: "Wifi"}

	mock.ExpectBegin()
	mock.ExpectExec(q(`INSERT INTO "amenity" ("created_at", "id", "name", "updated_at") VALUES ($1, $2, $3, $4)`)).
		WithArgs(amenity.CreatedAt, amenity.ID, "Wifi", amenity.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, adapter.Save(context.Background(), amenity))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_Save_UniqueViolationIsConflict(t *testing.T) {
	adapter, mock := setupMockDB(t)
	amenity := &entities.Amenity{Base: entities.NewBase(time.Now()), Name: "Wifi"}

	mock.ExpectBegin()
	mock.ExpectExec(q(`INSERT INTO "amenity"`)).
		WillReturnError(&pq.Error{Code: pgUniqueViolation})
	mock.ExpectRollback()

	err := adapter.Save(context.Background(), amenity)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_Save_DriverFailureIsInternal(t *testing.T) {
	adapter, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(q(`INSERT INTO "review"`)).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := adapter.Save(context.Background(), &entities.Review{Base: entities.NewBase(time.Now())})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_Update(t *testing.T) {
	adapter, mock := setupMockDB(t)
	city := &entities.City{Base: entities.NewBase(time.Now()), Name: "Montevideo", CountryCode: "UY"}

	mock.ExpectBegin()
	mock.ExpectExec(q(`UPDATE "city" SET "country_code"=$1,"name"=$2,"updated_at"=$3 WHERE ("id" = $4)`)).
		WithArgs("UY", "Montevideo", city.UpdatedAt, city.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, adapter.Update(context.Background(), city))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_Update_MissingRowIsNotFound(t *testing.T) {
	adapter, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(q(`UPDATE "city"`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := adapter.Update(context.Background(), &entities.City{Base: entities.NewBase(time.Now())})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_Delete(t *testing.T) {
	adapter, mock := setupMockDB(t)
	review := &entities.Review{Base: entities.NewBase(time.Now())}

	mock.ExpectBegin()
	mock.ExpectExec(q(`DELETE FROM "review" WHERE ("id" = $1)`)).
		WithArgs(review.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(q(`DELETE FROM "review" WHERE ("id" = $1)`)).
		WithArgs(review.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	removed, err := adapter.Delete(context.Background(), review)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = adapter.Delete(context.Background(), review)
	require.NoError(t, err)
	assert.False(t, removed)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_Reload_MigratesAndSeedsMissingCountries(t *testing.T) {
	migrated := false
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	adapter, mock := setupMockDB(t,
		WithMigrator(func(context.Context) error {
			migrated = true
			return nil
		}),
		WithClock(func() time.Time { return now }),
	)

	mock.ExpectQuery(q(`FROM "country" ORDER BY`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "name", "code"}).
			AddRow("c-uy", now, now, "Uruguay", "UY"))

	mock.ExpectBegin()
	mock.ExpectExec(q(`INSERT INTO "country"`)).
		WithArgs("US", now, sqlmock.AnyArg(), "United States", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, adapter.Reload(context.Background()))
	assert.True(t, migrated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_Reload_MigrationFailure(t *testing.T) {
	adapter, mock := setupMockDB(t, WithMigrator(func(context.Context) error {
		return errors.New("permission denied")
	}))

	err := adapter.Reload(context.Background())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	assert.NoError(t, mock.ExpectationsWereMet())
}
