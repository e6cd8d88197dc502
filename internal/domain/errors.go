package domain

import (
	"errors"
	"strings"
)

// Error categories surfaced to the CLI and TUI. Lower layers wrap these with %w.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrDuplicateItem = errors.New("product already added with the same price type")
	ErrEmptyInvoice  = errors.New("no items added to invoice")
	ErrIO            = errors.New("i/o failure")
	ErrPlatform      = errors.New("no document viewer available")
)

// FieldError describes one invalid or missing input field
type FieldError struct {
	Field   string
	Message string
}

func (f FieldError) String() string {
	return f.Field + " " + f.Message
}

// ValidationError lists every field that failed validation
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add appends a field failure
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Has reports whether the field already failed
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// OrNil returns nil when no field failed, so callers can return it directly
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
