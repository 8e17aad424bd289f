package repository

import "errors"

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrEmailTaken is returned when another user already owns the email.
	ErrEmailTaken = errors.New("email already in use")
)
