package service

import "errors"

// Error taxonomy for the workflow engine. Validation and authorization are
// checked locally and short-circuit an operation before any I/O; the handler
// layer maps each class to an HTTP status.
var (
	// ErrValidation marks a missing or malformed required field; the caller
	// can correct the input and retry.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden marks a capability check failure; the operation is
	// aborted before any network call.
	ErrForbidden = errors.New("operation not permitted")

	// ErrNotFound marks a targeted read of a missing resource. List reads
	// never produce it; absence of content is a normal state there.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidState marks a state transition the machine does not allow.
	ErrInvalidState = errors.New("invalid state transition")

	// ErrStorage marks an object storage failure. It is surfaced to the
	// caller and not retried automatically.
	ErrStorage = errors.New("storage operation failed")
)
