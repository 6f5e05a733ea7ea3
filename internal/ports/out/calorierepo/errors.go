package calorierepo

import "errors"

var (
	ErrNotFound      = errors.New("calorie entry not found")
	ErrAlreadyExists = errors.New("calorie entry already exists")
)
