package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrMissingCredentials is returned when email or password is absent.
	ErrMissingCredentials = errors.New("please provide email and password")
	// ErrInvalidCredentials deliberately covers both "no such user" and
	// "wrong password" so accounts cannot be enumerated.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthenticated covers missing, invalid, expired and stale sessions.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrForbidden is returned when the authenticated role is not allowed.
	ErrForbidden = errors.New("insufficient permissions")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidOrExpiredToken is returned for reset tokens that do not
	// match an unexpired stored hash.
	ErrInvalidOrExpiredToken = errors.New("token is invalid or has expired")
	// ErrEmailDelivery is returned when the notifier fails; the reset
	// token written beforehand has been rolled back.
	ErrEmailDelivery = errors.New("failed to send email, try again later")
)

// ValidationError carries per-field messages for malformed input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
