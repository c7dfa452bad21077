package services

import "errors"

// Service calls return one of these kinds; the HTTP layer maps them to status
// codes. Anything else is treated as an internal server fault.
var (
	// ErrBadCredentials deliberately covers both unknown username and wrong
	// password so callers cannot probe which usernames exist.
	ErrBadCredentials = errors.New("Invalid username or password")
	ErrUsernameTaken  = errors.New("Username already exists")
	ErrNotFound       = errors.New("Not found")
)

// ValidationError rejects malformed or missing caller input before any
// persistence attempt. Its message is safe to surface verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validation(msg string) error { return &ValidationError{Message: msg} }
