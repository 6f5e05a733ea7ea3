package locations

import "github.com/liftlog/liftlog-api/internal/domain"

// AllExercises selects every exercise in a Best query.
const AllExercises = "all"

type RecordInput struct {
	City      string
	Latitude  float64
	Longitude float64
	Exercise  string
	Weight    float64
	Reps      int
}

type BestQuery struct {
	// Exercise is a display name, or "" / AllExercises for every exercise.
	Exercise string
	// Bounds is nil for the whole map.
	Bounds *domain.Bounds
}
