package entities

import (
	"net/mail"
	"strings"

	apperrors "github.com/hbnb/hbnb-api/pkg/errors"
)

// User represents an account. PasswordHash is persisted and cached but must be
// stripped before the record leaves the service boundary.
type User struct {
	Base
	Email        string `json:"email" db:"email"`
	FirstName    string `json:"first_name" db:"first_name"`
	LastName     string `json:"last_name" db:"last_name"`
	PasswordHash string `json:"password_hash,omitempty" db:"password_hash"`
	IsAdmin      bool   `json:"is_admin" db:"is_admin"`
}

func (u *User) Kind() Kind { return KindUser }

func (u *User) Clone() Entity {
	cp := *u
	return &cp
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks field-level constraints
func (u *User) Validate() error {
	if u.Email == "" {
		return apperrors.NewValidationError("missing field: email")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return apperrors.NewValidationError("invalid email address")
	}
	if strings.TrimSpace(u.FirstName) == "" {
		return apperrors.NewValidationError("missing field: first_name")
	}
	if strings.TrimSpace(u.LastName) == "" {
		return apperrors.NewValidationError("missing field: last_name")
	}
	return nil
}
