package domain

import "errors"

// Error taxonomy. Callers match with errors.Is; the HTTP layer maps
// ErrNotFound to 404, ErrInvalidInput to 400, and everything else to 500.
var (
	// ErrNotFound indicates the referenced session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrInvalidInput indicates a malformed client payload, such as an
	// import record missing required fields.
	ErrInvalidInput = errors.New("invalid session data")

	// ErrStorage indicates an I/O failure reading or writing session records.
	ErrStorage = errors.New("storage error")

	// ErrProvider indicates the model invocation failed, or the
	// instruction document could not be located even after fallback.
	ErrProvider = errors.New("provider error")
)
