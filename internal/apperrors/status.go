package apperrors

import (
	"errors"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"
)

var classes = []error{ErrValidation, ErrConflict, ErrMismatch, ErrAuth, ErrNotFound, ErrEnrichment, ErrConfig}

// StatusCode maps an error class to the HTTP status used to present it.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrMismatch):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Detail returns the message of err without its class prefix, capitalized,
// so "validation error: invalid email format" reads "Invalid email format".
func Detail(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, class := range classes {
		if rest, ok := strings.CutPrefix(msg, class.Error()+": "); ok {
			msg = rest
			break
		}
	}

	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}
