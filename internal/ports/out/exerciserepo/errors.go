package exerciserepo

import "errors"

var (
	// ErrNotFound indicates no vocabulary entry exists for the requested key.
	ErrNotFound = errors.New("exercise not found")

	// ErrAlreadyExists indicates an entry with the same normalization key is already stored.
	ErrAlreadyExists = errors.New("exercise already exists")
)
