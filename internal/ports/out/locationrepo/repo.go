package locationrepo

import (
	"context"
	"time"

	"github.com/liftlog/liftlog-api/internal/domain"
)

// Record is the persistence shape of a lift pinned to a city.
type Record struct {
	ID          domain.LocationRecordID
	Owner       domain.SubjectID
	LifterName  string
	City        string
	Latitude    float64
	Longitude   float64
	Exercise    string
	ExerciseKey string
	Weight      float64
	Reps        int

	CreatedAt time.Time
}

// Repository provides access to pinned location records.
type Repository interface {
	Add(ctx context.Context, r Record) error

	// List returns records ordered by Weight descending, then CreatedAt ascending, then ID.
	// An empty exerciseKey returns records for every exercise.
	List(ctx context.Context, exerciseKey string) ([]Record, error)

	// ListExercises returns the distinct exercise names that have records, sorted.
	ListExercises(ctx context.Context) ([]string, error)
}
