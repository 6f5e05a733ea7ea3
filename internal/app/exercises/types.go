package exercises

import "github.com/liftlog/liftlog-api/internal/domain"

// Resolution is the outcome of canonicalizing one user-typed exercise name.
type Resolution struct {
	Exercise domain.CanonicalExercise

	// Created is true when this resolution appended a new vocabulary entry.
	// Callers coalesced onto the same in-flight resolution all observe the same value.
	Created bool

	// Degraded is true when the vocabulary could not be consulted and Exercise.Name is the
	// trimmed input rather than a stored canonical spelling.
	Degraded bool
}
