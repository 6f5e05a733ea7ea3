package workoutrepo

import (
	"context"
	"time"

	"github.com/liftlog/liftlog-api/internal/domain"
)

// Set is the persistence shape of one completed set.
type Set struct {
	Number int
	// Exercise is the canonical display name; ExerciseKey is its normalization key and is the
	// column history lookups filter on.
	Exercise    string
	ExerciseKey string
	Weight      float64
	Reps        int
}

// Workout is the persistence shape used by the workout repository.
// It is not an HTTP DTO.
type Workout struct {
	ID    domain.WorkoutID
	Owner domain.SubjectID
	Name  string
	Sets  []Set

	CreatedAt time.Time
}

// Repository provides access to completed workouts and their sets.
//
// Result ordering expectations:
// - ListByOwner returns newest first (CreatedAt descending, then ID).
// - Sets are always returned ordered by Number.
type Repository interface {
	// Create stores a workout together with all of its sets atomically.
	Create(ctx context.Context, w Workout) error

	GetByID(ctx context.Context, id domain.WorkoutID) (Workout, error)
	ListByOwner(ctx context.Context, owner domain.SubjectID) ([]Workout, error)

	// Delete removes a workout and its sets.
	Delete(ctx context.Context, id domain.WorkoutID) error

	// ListLiftsByExerciseKey returns every (weight, reps) the owner has recorded for the exercise
	// identified by its normalization key, across all workouts.
	ListLiftsByExerciseKey(ctx context.Context, owner domain.SubjectID, key string) ([]domain.Lift, error)

	// ListSetsByOwner returns every set the owner has recorded, in no particular order.
	ListSetsByOwner(ctx context.Context, owner domain.SubjectID) ([]Set, error)
}
