package entities

import (
	"strings"

	apperrors "github.com/hbnb/hbnb-api/pkg/errors"
)

// City belongs to the Country identified by CountryCode
type City struct {
	Base
	Name        string `json:"name" db:"name"`
	CountryCode string `json:"country_code" db:"country_code"`
}

func (c *City) Kind() Kind { return KindCity }

func (c *City) Clone() Entity {
	cp := *c
	return &cp
}

// Validate checks field-level constraints
func (c *City) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return apperrors.NewValidationError("missing field: name")
	}
	if strings.TrimSpace(c.CountryCode) == "" {
		return apperrors.NewValidationError("missing field: country_code")
	}
	return nil
}
