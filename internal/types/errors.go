package types

import "errors"

var (
	// ErrConstraintViolation marks writes rejected by a form rule or a table constraint.
	// Nothing has been written when it is returned.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrStorageUnavailable marks failures of the underlying store itself.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
