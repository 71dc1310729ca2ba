// Package common defines shared constants and sentinel errors used across
// client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Request error taxonomy.
	ErrValidation   = errors.New("validation error")
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrApplication  = errors.New("application error")

	// Cache-level warnings (the server accepted the change, the local list had no such id).
	ErrNotFoundInCache = errors.New("not found in cache")

	// Credential inspection.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ErrorKind classifies a RequestError.
type ErrorKind int

const (
	KindApplication ErrorKind = iota
	KindValidation
	KindNetwork
	KindAuthorization
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindAuthorization:
		return "authorization"
	default:
		return "application"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindNetwork:
		return ErrUnavailable
	case KindAuthorization:
		return ErrUnauthorized
	default:
		return ErrApplication
	}
}

// RequestError is the single error shape returned by the adapter and the
// containers. Message is the human-readable text shown to the user.
type RequestError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

// NewValidationError builds a client-side validation failure.
func NewValidationError(msg string, cause error) *RequestError {
	return &RequestError{Kind: KindValidation, Message: msg, Err: cause}
}

// Message extracts the text a container stores in its error field.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var re *RequestError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return GenericFailureMessage
}
