package database

import (
	"errors"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	apperrors "github.com/hbnb/hbnb-api/pkg/errors"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// classify maps driver constraint errors onto the application taxonomy. The
// services check uniqueness and references before writing, so these only
// fire when two requests race.
func classify(err error, message string) error {
	switch {
	case isUniqueViolation(err):
		return &apperrors.AppError{Type: apperrors.ErrorTypeConflict, Message: "record already exists", Err: err}
	case isForeignKeyViolation(err):
		return &apperrors.AppError{Type: apperrors.ErrorTypeConflict, Message: "record is referenced by or references a missing record", Err: err}
	default:
		return apperrors.NewInternalError(message, err)
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgForeignKeyViolation
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}
