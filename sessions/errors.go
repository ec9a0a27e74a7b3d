package sessions

import "errors"

var (
	// ErrSessionNotFound is returned when a session id does not exist or the
	// session is already closed.
	ErrSessionNotFound = errors.New("login session not found")
)
