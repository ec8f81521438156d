// Package apperr defines sentinel errors shared across Raido.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidPeriod means a custom review range is malformed or
	// missing a bound. Surfaced before any I/O happens.
	ErrInvalidPeriod = errors.New("invalid review period")

	// ErrNoNotes means the scan matched nothing; the run aborts with a
	// non-fatal notice.
	ErrNoNotes = errors.New("no notes modified in period")
)
