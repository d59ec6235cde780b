package services

import (
	"errors"

	apperrors "github.com/brightpath-ed/tutoring-service/internal/errors"
	"github.com/brightpath-ed/tutoring-service/internal/repositories"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrConflict         = errors.New("resource conflict")

	// Student specific errors
	ErrStudentNotFound = errors.New("student not found")
	ErrStudentExists   = errors.New("student already registered")
	ErrStudentInactive = errors.New("student profile is deactivated")

	// Session specific errors
	ErrSessionNotFound = errors.New("tutoring session not found or expired")
	ErrSessionMismatch = errors.New("session does not belong to this student")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// IsNotFound reports whether err maps to a 404 at the HTTP boundary.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrStudentNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		repositories.IsNotFoundError(err)
}

// IsValidation reports whether err maps to a 400 at the HTTP boundary.
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve ValidationErrors
	return errors.As(err, &ve)
}

// IsConflict reports whether err maps to a 409 at the HTTP boundary.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrStudentExists)
}
