package domain

import "errors"

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	// ErrReadOnly rejects statements that could modify data on a read-only path
	ErrReadOnly = errors.New("statement is not read-only")
)

// NotFoundError names the missing resource and matches ErrNotFound
type NotFoundError struct {
	ResourceType string
	ResourceID   string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return e.ResourceType + " " + e.ResourceID + ": " + ErrNotFound.Error()
}

// Is allows errors.Is() to match against ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
