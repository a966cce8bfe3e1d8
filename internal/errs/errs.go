// Package errs holds the error kinds shared by the storefront stores.
//
// Each kind is a typed struct so callers can pull details out with errors.As,
// and each one matches its sentinel with errors.Is.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrImport     = errors.New("import failed")
	ErrStorage    = errors.New("storage failure")
	ErrCollision  = errors.New("id collision")
)

// ValidationError reports an empty or malformed required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports an operation that referenced an id that does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ImportError reports a malformed import payload.
type ImportError struct {
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("import: %s: %v", e.Reason, e.Err)
	}
	return "import: " + e.Reason
}

func (e *ImportError) Unwrap() error { return e.Err }

func (e *ImportError) Is(target error) bool { return target == ErrImport }

// StorageError wraps a failure of the underlying key/value store.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// CollisionError reports an id that is already taken in the catalog.
type CollisionError struct {
	ID string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("product id %q already exists", e.ID)
}

func (e *CollisionError) Is(target error) bool { return target == ErrCollision }

// Required builds the ValidationError used for empty required fields.
func Required(field string) error {
	return &ValidationError{Field: field, Message: field + " is required"}
}

// NotFound builds a NotFoundError for the given entity kind.
func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// StatusCode maps an error kind onto the HTTP status a handler should answer with.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrCollision):
		return http.StatusConflict
	case errors.Is(err, ErrValidation), errors.Is(err, ErrImport):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
