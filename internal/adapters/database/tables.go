package database

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/hbnb/hbnb-api/internal/domain/entities"
)

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

// table maps one entity kind onto its SQL table
type table struct {
	name    string
	columns []any
	record  func(e entities.Entity) goqu.Record
	scan    func(s scanner) (entities.Entity, error)
}

var baseColumns = []any{"id", "created_at", "updated_at"}

func columns(extra ...any) []any {
	return append(append([]any{}, baseColumns...), extra...)
}

func baseRecord(b *entities.Base, rec goqu.Record) goqu.Record {
	rec["id"] = b.ID
	rec["created_at"] = b.CreatedAt
	rec["updated_at"] = b.UpdatedAt
	return rec
}

var tables = map[entities.Kind]table{
	entities.KindCountry: {
		name:    "country",
		columns: columns("name", "code"),
		record: func(e entities.Entity) goqu.Record {
			c := e.(*entities.Country)
			return baseRecord(&c.Base, goqu.Record{"name": c.Name, "code": c.Code})
		},
		scan: func(s scanner) (entities.Entity, error) {
			c := &entities.Country{}
			err := s.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.Name, &c.Code)
			return c, err
		},
	},
	entities.KindCity: {
		name:    "city",
		columns: columns("name", "country_code"),
		record: func(e entities.Entity) goqu.Record {
			c := e.(*entities.City)
			return baseRecord(&c.Base, goqu.Record{"name": c.Name, "country_code": c.CountryCode})
		},
		scan: func(s scanner) (entities.Entity, error) {
			c := &entities.City{}
			err := s.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.Name, &c.CountryCode)
			return c, err
		},
	},
	entities.KindUser: {
		name:    "user",
		columns: columns("email", "first_name", "last_name", "password_hash", "is_admin"),
		record: func(e entities.Entity) goqu.Record {
			u := e.(*entities.User)
			return baseRecord(&u.Base, goqu.Record{
				"email":         u.Email,
				"first_name":    u.FirstName,
				"last_name":     u.LastName,
				"password_hash": u.PasswordHash,
				"is_admin":      u.IsAdmin,
			})
		},
		scan: func(s scanner) (entities.Entity, error) {
			u := &entities.User{}
			err := s.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt,
				&u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.IsAdmin)
			return u, err
		},
	},
	entities.KindPlace: {
		name: "place",
		columns: columns(
			"name", "description", "address", "latitude", "longitude",
			"host_id", "city_id", "price_per_night", "number_of_rooms",
			"number_of_bathrooms", "max_guests",
		),
		record: func(e entities.Entity) goqu.Record {
			p := e.(*entities.Place)
			return baseRecord(&p.Base, goqu.Record{
				"name":                p.Name,
				"description":         p.Description,
				"address":             p.Address,
				"latitude":            p.Latitude,
				"longitude":           p.Longitude,
				"host_id":             p.HostID,
				"city_id":             p.CityID,
				"price_per_night":     p.PricePerNight,
				"number_of_rooms":     p.NumberOfRooms,
				"number_of_bathrooms": p.NumberOfBathrooms,
				"max_guests":          p.MaxGuests,
			})
		},
		scan: func(s scanner) (entities.Entity, error) {
			p := &entities.Place{}
			err := s.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt,
				&p.Name, &p.Description, &p.Address, &p.Latitude, &p.Longitude,
				&p.HostID, &p.CityID, &p.PricePerNight, &p.NumberOfRooms,
				&p.NumberOfBathrooms, &p.MaxGuests)
			return p, err
		},
	},
	entities.KindAmenity: {
		name:    "amenity",
		columns: columns("name"),
		record: func(e entities.Entity) goqu.Record {
			a := e.(*entities.Amenity)
			return baseRecord(&a.Base, goqu.Record{"name": a.Name})
		},
		scan: func(s scanner) (entities.Entity, error) {
			a := &entities.Amenity{}
			err := s.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt, &a.Name)
			return a, err
		},
	},
	entities.KindPlaceAmenity: {
		name:    "placeamenity",
		columns: columns("place_id", "amenity_id"),
		record: func(e entities.Entity) goqu.Record {
			pa := e.(*entities.PlaceAmenity)
			return baseRecord(&pa.Base, goqu.Record{"place_id": pa.PlaceID, "amenity_id": pa.AmenityID})
		},
		scan: func(s scanner) (entities.Entity, error) {
			pa := &entities.PlaceAmenity{}
			err := s.Scan(&pa.ID, &pa.CreatedAt, &pa.UpdatedAt, &pa.PlaceID, &pa.AmenityID)
			return pa, err
		},
	},
	entities.KindReview: {
		name:    "review",
		columns: columns("place_id", "user_id", "comment", "rating"),
		record: func(e entities.Entity) goqu.Record {
			r := e.(*entities.Review)
			return baseRecord(&r.Base, goqu.Record{
				"place_id": r.PlaceID,
				"user_id":  r.UserID,
				"comment":  r.Comment,
				"rating":   r.Rating,
			})
		},
		scan: func(s scanner) (entities.Entity, error) {
			r := &entities.Review{}
			err := s.Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt, &r.PlaceID, &r.UserID, &r.Comment, &r.Rating)
			return r, err
		},
	},
}

func tableFor(kind entities.Kind) (table, error) {
	t, ok := tables[kind]
	if !ok {
		return table{}, fmt.Errorf("no table mapped for kind %q", kind)
	}
	return t, nil
}
