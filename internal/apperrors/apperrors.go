// Package apperrors defines the error classes shared across the application.
//
// Packages declare their own specific errors and wrap one of these classes, so the
// HTTP layer can decide how to present a failure with errors.Is alone:
//
//	var ErrEmailRequired = fmt.Errorf("%w: email is required", apperrors.ErrValidation)
//
//	if errors.Is(err, apperrors.ErrValidation) { ... }
package apperrors

import "errors"

var (
	// ErrValidation marks missing or malformed user input.
	ErrValidation = errors.New("validation error")

	// ErrConflict marks a uniqueness violation.
	ErrConflict = errors.New("conflict")

	// ErrMismatch marks a password confirmation that differs from the password.
	ErrMismatch = errors.New("mismatch")

	// ErrAuth marks credentials that do not verify.
	ErrAuth = errors.New("authentication failed")

	// ErrNotFound marks a missing book or user.
	ErrNotFound = errors.New("not found")

	// ErrEnrichment marks a failed call to the external ratings service.
	// It is never fatal: callers fall back to stored data.
	ErrEnrichment = errors.New("enrichment failed")

	// ErrConfig marks missing or invalid startup configuration.
	ErrConfig = errors.New("configuration error")
)

// IsUserError reports whether err belongs to a class that is shown to the user
// as a message rather than as an internal error.
func IsUserError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrMismatch) ||
		errors.Is(err, ErrAuth) ||
		errors.Is(err, ErrNotFound)
}
