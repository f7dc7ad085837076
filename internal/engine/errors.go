package engine

import (
	"errors"
	"fmt"
)

// ErrNotFound signals an operation on an id no longer present
var ErrNotFound = errors.New("not found")

// ValidationError is a caller mistake caught at the boundary; it never
// reaches the backing store.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidationError creates a ValidationError
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// WriteRejectedError is a store-level denial (stale record, permission,
// state conflict). The optimistic local change is reverted and the error
// surfaces to the caller; it is never retried automatically.
type WriteRejectedError struct {
	Reason string
}

func (e *WriteRejectedError) Error() string {
	return "write rejected: " + e.Reason
}

// IsWriteRejected reports whether err is a WriteRejectedError
func IsWriteRejected(err error) bool {
	var we *WriteRejectedError
	return errors.As(err, &we)
}

// TransientError wraps a network or store availability failure. Reads may
// be retried with backoff; writes surface to the user to retry manually so
// state-changing operations never run twice silently.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient failure in %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a TransientError
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
