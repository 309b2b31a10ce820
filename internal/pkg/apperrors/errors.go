package apperrors

import (
	"errors"
	"fmt"
)

// Error kinds. HandleAPIError maps each of them to exactly one status code.
var (
	ErrResourceNotFound    = errors.New("resource not found")
	ErrValidationFailed    = errors.New("validation failed")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrDuplicateEnrollment = errors.New("student is already enrolled in this course")
	ErrPersistence         = errors.New("persistence failure")
)

// Not-found errors per entity; all of them match ErrResourceNotFound.
var (
	ErrStudentNotFound    = fmt.Errorf("student %w", ErrResourceNotFound)
	ErrCourseNotFound     = fmt.Errorf("course %w", ErrResourceNotFound)
	ErrEnrollmentNotFound = fmt.Errorf("enrollment %w", ErrResourceNotFound)
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Field   string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithField records which input field caused the error
func (e *CustomError) WithField(field string) *CustomError {
	e.Field = field
	return e
}

// NewValidationError creates a validation failure for a single field
func NewValidationError(field, message string) error {
	return NewCustomError(ErrValidationFailed, message).WithField(field)
}

// StudentNotFound reports a missing student id
func StudentNotFound(id int64) error {
	return NewCustomError(ErrStudentNotFound, fmt.Sprintf("student with id %d not found", id))
}

// CourseNotFound reports a missing course id
func CourseNotFound(id int64) error {
	return NewCustomError(ErrCourseNotFound, fmt.Sprintf("course with id %d not found", id))
}

// EnrollmentNotFound reports a missing enrollment id
func EnrollmentNotFound(id int64) error {
	return NewCustomError(ErrEnrollmentNotFound, fmt.Sprintf("enrollment with id %d not found", id))
}

// Message returns the human-readable text of err, preferring CustomError messages
func Message(err error) string {
	var custom *CustomError
	if errors.As(err, &custom) {
		return custom.Error()
	}
	return err.Error()
}

// FieldOf returns the offending field of a validation error, if any
func FieldOf(err error) string {
	var custom *CustomError
	if errors.As(err, &custom) {
		return custom.Field
	}
	return ""
}
