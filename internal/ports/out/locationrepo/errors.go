package locationrepo

import "errors"

var (
	ErrAlreadyExists = errors.New("location record already exists")
)
