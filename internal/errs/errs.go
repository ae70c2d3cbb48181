// Package errs holds sentinel errors shared by stores and handlers.
package errs

import "errors"

var (
	// ErrNotFound indicates the entity does not exist or is owned by another user.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates an intake log too close to an existing one.
	ErrDuplicate = errors.New("duplicate entry")

	// ErrAlreadyExists indicates a unique constraint violation (e.g. email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnauthorized indicates failed authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidSchedule indicates a stored medicine whose schedule fields do not match its type.
	ErrInvalidSchedule = errors.New("invalid schedule")
)
