package identity

import "errors"

// Not-found sentinels, returned by Storage implementations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrLinkNotFound = errors.New("provider link not found")
)

// Validation errors: the request is malformed and nothing was mutated.
var (
	ErrInvalidProvider = errors.New("unknown auth provider")
	ErrSubjectRequired = errors.New("provider subject id is required")
	ErrEmailRequired   = errors.New("email is required for social login")
)

// Conflict errors: the request collides with existing state. Email conflicts
// are never auto-resolved; attaching a second provider to someone else's
// email would be a silent account takeover.
var (
	ErrEmailTaken    = errors.New("email already registered under a different provider")
	ErrUsernameTaken = errors.New("username already in use")
	ErrLinkExists    = errors.New("provider identity already linked to an account")
)

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidProvider) ||
		errors.Is(err, ErrSubjectRequired) ||
		errors.Is(err, ErrEmailRequired)
}

// IsConflict reports whether err is an account state conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrUsernameTaken) ||
		errors.Is(err, ErrLinkExists)
}
