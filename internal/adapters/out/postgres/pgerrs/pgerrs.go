// Package pgerrs maps PostgreSQL driver errors onto the error taxonomy of the service.
package pgerrs

import (
	"errors"
	"fmt"

	"bagpub/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation.
// gorm.ErrDuplicatedKey covers sessions opened with TranslateError.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}

// ConstraintName returns the violated constraint, or "" when err carries none.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

// Collision wraps a unique violation so that errors.Is(err, errs.ErrIdentifierCollision)
// holds. Other errors are returned unchanged.
func Collision(err error) error {
	if err == nil || !IsUniqueViolation(err) {
		return err
	}
	if name := ConstraintName(err); name != "" {
		return fmt.Errorf("%w: %s", errs.ErrIdentifierCollision, name)
	}
	return errs.ErrIdentifierCollision
}
