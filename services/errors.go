package services

import "errors"

var (
	// ErrDuplicate is returned when a unique resource, such as an email, already exists.
	ErrDuplicate = errors.New("resource already exists")

	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound means the row is absent or belongs to another user.
	ErrNotFound = errors.New("not found")

	ErrValidation = errors.New("validation failed")
)
