package exerciserepo

import (
	"context"
	"time"
)

// Exercise is the persistence shape of one vocabulary entry.
type Exercise struct {
	// Name is the display spelling, stored verbatim as first entered.
	Name string
	// Key is the normalization key of Name. It is unique across the vocabulary.
	Key string

	CreatedAt time.Time
}

// Repository is the shared, append-only exercise vocabulary.
//
// Implementations must enforce uniqueness of Key and report a violation as ErrAlreadyExists.
// There is no update or delete: rows are never mutated once appended.
type Repository interface {
	// List returns the whole vocabulary ordered by Name ascending (case-insensitive).
	List(ctx context.Context) ([]Exercise, error)

	// GetByKey returns the entry whose Key equals key, or ErrNotFound.
	GetByKey(ctx context.Context, key string) (Exercise, error)

	// SearchByKey returns entries whose Key contains fragment, ordered by Key length then Key.
	// A limit <= 0 means unbounded.
	SearchByKey(ctx context.Context, fragment string, limit int) ([]Exercise, error)

	Append(ctx context.Context, e Exercise) error
}
