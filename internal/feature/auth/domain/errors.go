// Package domain defines domain-level errors for the auth feature.
package domain

import "errors"

// Kind classifies an auth failure. The transport layer maps each kind to an
// HTTP status.
type Kind int

const (
	// KindValidation means the request was missing or had malformed fields.
	KindValidation Kind = iota + 1
	// KindConflict means the request collides with existing state.
	KindConflict
	// KindAuth means the credentials were rejected.
	KindAuth
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	default:
		return "unknown"
	}
}

// Error is an auth failure whose Message is safe to return to clients.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is an *Error of the same kind and message.
// A target with an empty message matches any error of its kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// Domain errors for authentication operations.
var (
	// ErrMissingFields is returned by signup when the email or password is empty.
	ErrMissingFields = &Error{Kind: KindValidation, Message: "Please enter all fields"}

	// ErrUserAlreadyExists is returned by signup when the email is already registered.
	ErrUserAlreadyExists = &Error{Kind: KindConflict, Message: "User already exists"}

	// ErrInvalidCredentials is returned by login for an unknown email, a wrong
	// password or missing fields alike.
	ErrInvalidCredentials = &Error{Kind: KindAuth, Message: "Invalid email or password"}

	// ErrValidation matches any validation error.
	ErrValidation = &Error{Kind: KindValidation}
	// ErrConflict matches any conflict error.
	ErrConflict = &Error{Kind: KindConflict}
	// ErrAuth matches any authentication error.
	ErrAuth = &Error{Kind: KindAuth}
)

// KindOf returns the Kind of err, or 0 if err is not a domain error.
func KindOf(err error) Kind {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Kind
	}
	return 0
}
