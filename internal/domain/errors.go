package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnsupported marks a capability limitation rather than a failure,
	// e.g. bulk download of folders or bulk folder sharing.
	ErrUnsupported = errors.New("operation not supported")
)

// ConflictError represents a resource conflict with details about the
// existing resource (e.g. a share grant that already exists).
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (folder, file, share)
	ResourceID   string // ID of the existing/conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
