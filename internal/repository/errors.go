package repository

import "errors"

var (
	// ErrNotFound is returned when a keyed record is absent.
	ErrNotFound = errors.New("record not found")
	// ErrEmailExists is returned by the identity store on an email collision.
	ErrEmailExists = errors.New("email already exists")
)
