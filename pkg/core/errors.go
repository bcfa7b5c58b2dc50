package core

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors.
var (
	ErrCourseNotFound = errors.New("course not found")
	ErrCourseExists   = errors.New("a course with this name already exists")
	ErrTaskNotFound   = errors.New("task not found")
	ErrNoteNotFound   = errors.New("note not found")
	ErrUnknownKind    = errors.New("unknown template kind")
	ErrReadOnly       = errors.New("store is in read-only mode")
)

// ParseError reports unreadable or malformed data in a store. When Load
// fails with a ParseError the caller keeps its current in-memory model.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FieldError is used to indicate an error with a specific input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError reports rejected user input. Fields carries the per-field
// messages when the failure is field-specific.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err *ValidationError) Error() string {
	var parts []string
	if err.Err != nil {
		parts = append(parts, err.Err.Error())
	}
	for _, f := range err.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Error))
	}
	if len(parts) == 0 {
		return "invalid input"
	}
	return strings.Join(parts, "; ")
}

func (err *ValidationError) Unwrap() error { return err.Err }
