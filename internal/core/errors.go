package core

import "errors"

// Error taxonomy shared by every layer. Callers classify failures with
// errors.Is; the wrapped message carries the specific violated rule.
var (
	// ErrInvalidData marks an entity field that failed validation.
	ErrInvalidData = errors.New("invalid data")

	// ErrUserAlreadyExists marks an email uniqueness violation.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrAuthenticationFailed marks a credential lookup with no match.
	// The message is deliberately generic to avoid account enumeration.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrNotFound marks a lookup that expected rows and found none.
	ErrNotFound = errors.New("not found")

	// ErrStorageFailure marks an engine rejection for any reason other
	// than the ones above (I/O error, corrupted row, odd constraint).
	ErrStorageFailure = errors.New("storage failure")
)
