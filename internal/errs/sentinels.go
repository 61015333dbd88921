// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"strings"
)

// Common sentinels across repo/procedure/transport layers.
var (
	// ErrNotFound indicates an unknown procedure name. Missing rows are never reported with it:
	// reads return an absent value instead.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated indicates a protected call without a resolved caller identity.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden indicates a resolved caller lacking the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrStoreUnavailable indicates that no store connection has been established (or it was closed).
	ErrStoreUnavailable = errors.New("store unavailable")
)

// FieldError describes a single violated input field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports malformed or missing input fields.
type ValidationError struct {
	Fields []FieldError
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, reason string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Reason: reason}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			parts = append(parts, f.Reason)
			continue
		}
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Kind classifies an error for transports.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindInternal        Kind = "internal"
)

// KindOf maps err onto the error taxonomy. Anything unrecognised (store failures included) is internal.
func KindOf(err error) Kind {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return KindValidation
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}
