// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDepended indicates other rows still reference the target as a foreign key.
	ErrDepended = errors.New("depended on by other rows")

	// ErrInsufficientStock indicates a quantity adjustment that would drive a
	// stock balance negative.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidSession indicates an unknown or destroyed session id.
	ErrInvalidSession = errors.New("invalid session")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")
)
