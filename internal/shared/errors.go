package shared

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateEmail indicates a registration against an email that is already taken.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrNotAuthenticated indicates a protected route was hit without a session.
	ErrNotAuthenticated = errors.New("not logged in")
)
