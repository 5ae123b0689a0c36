package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hbnb/hbnb-api/internal/infrastructure/clients/sqldb"
)

// The structs below only describe the schema for AutoMigrate. Reads and
// writes go through goqu in repository.go.

type countryRow struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"size:120;not null;uniqueIndex"`
	Code      string    `gorm:"size:3;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (countryRow) TableName() string { return "country" }

type userRow struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Email        string    `gorm:"size:120;not null;uniqueIndex"`
	FirstName    string    `gorm:"size:120;not null"`
	LastName     string    `gorm:"size:120;not null"`
	PasswordHash string    `gorm:"size:128;not null"`
	IsAdmin      bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (userRow) TableName() string { return "user" }

type amenityRow struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"size:150;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (amenityRow) TableName() string { return "amenity" }

type cityRow struct {
	ID          string     `gorm:"primaryKey;size:36"`
	Name        string     `gorm:"size:120;not null;uniqueIndex:idx_city_country_name"`
	CountryCode string     `gorm:"size:3;not null;index;uniqueIndex:idx_city_country_name"`
	Country     countryRow `gorm:"foreignKey:CountryCode;references:Code"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

func (cityRow) TableName() string { return "city" }

type placeRow struct {
	ID                string    `gorm:"primaryKey;size:36"`
	Name              string    `gorm:"size:120;not null"`
	Description       string    `gorm:"not null;default:''"`
	Address           string    `gorm:"not null"`
	Latitude          float64   `gorm:"not null"`
	Longitude         float64   `gorm:"not null"`
	HostID            string    `gorm:"size:36;not null;index"`
	Host              userRow   `gorm:"foreignKey:HostID"`
	CityID            string    `gorm:"size:36;not null;index"`
	City              cityRow   `gorm:"foreignKey:CityID"`
	PricePerNight     int       `gorm:"not null"`
	NumberOfRooms     int       `gorm:"not null"`
	NumberOfBathrooms int       `gorm:"not null"`
	MaxGuests         int       `gorm:"not null"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

func (placeRow) TableName() string { return "place" }

type placeAmenityRow struct {
	ID        string     `gorm:"primaryKey;size:36"`
	PlaceID   string     `gorm:"size:36;not null;uniqueIndex:idx_place_amenity"`
	Place     placeRow   `gorm:"foreignKey:PlaceID"`
	AmenityID string     `gorm:"size:36;not null;index;uniqueIndex:idx_place_amenity"`
	Amenity   amenityRow `gorm:"foreignKey:AmenityID"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`
}

func (placeAmenityRow) TableName() string { return "placeamenity" }

type reviewRow struct {
	ID        string    `gorm:"primaryKey;size:36"`
	PlaceID   string    `gorm:"size:36;not null;index"`
	Place     placeRow  `gorm:"foreignKey:PlaceID"`
	UserID    string    `gorm:"size:36;not null;index"`
	User      userRow   `gorm:"foreignKey:UserID"`
	Comment   string    `gorm:"not null"`
	Rating    float64   `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (reviewRow) TableName() string { return "review" }

// schemaModels are listed parents first so foreign keys resolve
func schemaModels() []interface{} {
	return []interface{}{
		&countryRow{},
		&userRow{},
		&amenityRow{},
		&cityRow{},
		&placeRow{},
		&placeAmenityRow{},
		&reviewRow{},
	}
}

// Migrate creates or alters the tables backing the SQL repository. It reuses
// the client's connection pool.
func Migrate(ctx context.Context, client *sqldb.Client) error {
	var dialector gorm.Dialector
	switch client.Driver() {
	case sqldb.DriverPostgres:
		dialector = postgres.New(postgres.Config{Conn: client.DB()})
	case sqldb.DriverSQLite:
		dialector = &sqlite.Dialector{Conn: client.DB()}
	default:
		return fmt.Errorf("no schema dialect for driver %q", client.Driver())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open schema session: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(schemaModels()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
