package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an id lookup misses
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write would break a uniqueness or reference rule
	ErrConflict = errors.New("conflict")
)

// ValidationError a malformed or missing field, or a failed type coercion
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UnsupportedFormatError an uploaded file whose extension or content cannot be read
type UnsupportedFormatError struct {
	Filename string
	Reason   string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported file format %q: %s", e.Filename, e.Reason)
	}
	return fmt.Sprintf("unsupported file format %q", e.Filename)
}

// RowError a single import row that could not be mapped or stored.
// Row is the 1-based ordinal of the data row in the file.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("Error in row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err carries a *ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
