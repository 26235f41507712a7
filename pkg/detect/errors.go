package detect

import (
	"errors"
	"fmt"
)

// Sentinel errors for common detector conditions.
var (
	// ErrNoModel is returned when the face model file is missing.
	ErrNoModel = errors.New("detect: face model file not found")

	// ErrEmptyFrame is returned when a frame cannot be decoded.
	ErrEmptyFrame = errors.New("detect: empty or undecodable frame")

	// ErrNoLandmarks is returned when a face is found but landmarks are unusable.
	ErrNoLandmarks = errors.New("detect: face landmarks missing")
)

// PanicError wraps a recovered panic from a detector backend.
type PanicError struct {
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("detect: backend panic: %v", e.Value)
}

// BackendError wraps an error with the backend name for logging.
type BackendError struct {
	Backend string
	Err     error
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	return fmt.Sprintf("detect [%s]: %v", e.Backend, e.Err)
}

// Unwrap returns the underlying error.
func (e *BackendError) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with backend context.
func WrapError(backend string, err error) error {
	if err == nil {
		return nil
	}
	return &BackendError{Backend: backend, Err: err}
}
