// Package common defines shared constants and sentinel errors used across
// client and server layers of Gatekeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")

	// Service-level error kinds surfaced to transports.
	ErrorBadRequest   = errors.New("bad request")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorInternal     = errors.New("internal error")

	// Token verification errors.
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
)

// KindError carries one of the sentinel kinds above together with a message
// that is safe to show to the caller.
type KindError struct {
	Kind    error
	Message string
}

func (e *KindError) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *KindError) Unwrap() error {
	return e.Kind
}

// NewKindError returns an error matching kind via errors.Is and printing msg.
func NewKindError(kind error, msg string) error {
	return &KindError{Kind: kind, Message: msg}
}

// PublicMessage returns the caller-safe message of err. Errors that are not
// KindError are reduced to their sentinel text so internals never leak.
func PublicMessage(err error) string {
	var ke *KindError
	if errors.As(err, &ke) {
		return ke.Error()
	}
	for _, kind := range []error{ErrorBadRequest, ErrorUnauthorized, ErrorNotFound, ErrorConflict} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return ErrorInternal.Error()
}
