package kernel

import (
	"fmt"

	"bagpub/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned when validating a zero-value UUID.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError("UUID must be created via NewUUID or UUIDFromString")

// UUID identifies campaigns, batches, print orders, audit entries and the parties
// reached through the user directory. It wraps github.com/google/uuid and is immutable.
//
// The zero value is invalid; Validate reports it.
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a random (version 4) UUID.
func NewUUID() UUID {
	return UUID{id: uuid.New()}
}

// UUIDFromString parses the canonical, braced, urn or hyphen-less form.
// The nil UUID is rejected.
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, errs.NewValueIsInvalidErrorWithCause("UUID", fmt.Errorf("%q: %w", s, err))
	}
	parsed := UUID{id: id}
	if err = parsed.Validate(); err != nil {
		return UUID{}, err
	}
	return parsed, nil
}

// MustUUIDFromString is UUIDFromString for literals in tests and fixtures. It panics on error.
func MustUUIDFromString(s string) UUID {
	id, err := UUIDFromString(s)
	if err != nil {
		panic(err)
	}
	return id
}

// UUIDFromGoogle wraps an already parsed uuid.UUID, e.g. one read by gorm.
func UUIDFromGoogle(id uuid.UUID) (UUID, error) {
	wrapped := UUID{id: id}
	if err := wrapped.Validate(); err != nil {
		return UUID{}, err
	}
	return wrapped, nil
}

// String returns the canonical "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx" form.
func (u UUID) String() string {
	return u.id.String()
}

// Google returns the underlying uuid.UUID for persistence adapters.
func (u UUID) Google() uuid.UUID {
	return u.id
}

// IsEqual reports whether both UUIDs hold the same value.
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// IsZero reports whether u is the zero value.
func (u UUID) IsZero() bool {
	return u.id == uuid.Nil
}

// Validate returns ErrUUIDIsNotConstructed for the nil UUID.
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}

// UUIDPtrFromGoogle converts a nullable database column into an optional UUID.
func UUIDPtrFromGoogle(id *uuid.UUID) *UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	return &UUID{id: *id}
}

// GooglePtr converts an optional UUID into a nullable database column.
func GooglePtr(u *UUID) *uuid.UUID {
	if u == nil {
		return nil
	}
	id := u.id
	return &id
}
