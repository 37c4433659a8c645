package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrCourseNotFound    = New("COURSE_NOT_FOUND", http.StatusNotFound, "course not found")
	ErrStudentNotFound   = New("STUDENT_NOT_FOUND", http.StatusNotFound, "student not found")
	ErrDuplicateCourse   = New("DUPLICATE_COURSE", http.StatusBadRequest, "course code already registered")
	ErrDuplicateRequest  = New("DUPLICATE_REQUEST", http.StatusBadRequest, "enrollment request already queued")
	ErrInvalidCapacity   = New("INVALID_CAPACITY", http.StatusBadRequest, "capacity must be a positive integer")
	ErrCourseFull        = New("COURSE_FULL", http.StatusBadRequest, "course is at capacity")
	ErrLedgerUnavailable = New("LEDGER_UNAVAILABLE", http.StatusServiceUnavailable, "fee ledger unavailable")
	ErrDuplicateStudent  = New("DUPLICATE_STUDENT", http.StatusBadRequest, "student id already registered")
	ErrBookUnavailable   = New("BOOK_UNAVAILABLE", http.StatusBadRequest, "no copies available")
	ErrNotFound          = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrValidation        = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal          = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss         = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Is reports whether err matches the target typed error by code.
func Is(err error, target *Error) bool {
	if err == nil || target == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code == target.Code
	}
	return false
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
