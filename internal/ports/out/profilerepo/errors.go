package profilerepo

import "errors"

var (
	// ErrNotFound indicates no profile exists for the subject.
	ErrNotFound = errors.New("profile not found")
)
