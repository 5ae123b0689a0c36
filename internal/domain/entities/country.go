package entities

import (
	"strings"

	apperrors "github.com/hbnb/hbnb-api/pkg/errors"
)

// Country is immutable once created
type Country struct {
	Base
	Name string `json:"name" db:"name"`
	Code string `json:"code" db:"code"`
}

func (c *Country) Kind() Kind { return KindCountry }

func (c *Country) Clone() Entity {
	cp := *c
	return &cp
}

// NormalizeCountryCode upper-cases and trims a country code
func NormalizeCountryCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks field-level constraints
func (c *Country) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return apperrors.NewValidationError("missing field: name")
	}
	if n := len(c.Code); n < 2 || n > 3 {
		return apperrors.NewValidationError("country code must be 2 or 3 characters")
	}
	return nil
}
