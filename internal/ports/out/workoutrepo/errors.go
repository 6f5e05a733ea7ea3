package workoutrepo

import "errors"

var (
	ErrNotFound      = errors.New("workout not found")
	ErrAlreadyExists = errors.New("workout already exists")
)
