package services

import "errors"

var (
	// ErrDuplicateUser is returned when registering an existing username.
	ErrDuplicateUser = errors.New("user already exists")

	// ErrInvalidCredentials is returned on any login failure. It never
	// distinguishes a bad username from a bad password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned by lookups for an unknown username.
	ErrUserNotFound = errors.New("user not found")

	// ErrCardNotFound is returned by card lookups for an unknown id.
	ErrCardNotFound = errors.New("card not found")
)
