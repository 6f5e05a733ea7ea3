package workouts

import (
	"github.com/liftlog/liftlog-api/internal/app/records"
	"github.com/liftlog/liftlog-api/internal/domain"
)

type CheckSetInput struct {
	Exercise string
	Weight   float64
	Reps     int
	// Pending are the unsaved sets already entered in this session.
	Pending []records.PendingLift
}

// SetCheck is the result of running one entered set through the canonicalize-then-classify
// pipeline.
type SetCheck struct {
	Exercise domain.CanonicalExercise
	Created  bool
	Degraded bool
	PR       domain.PRKind
}

type SetInput struct {
	Exercise string
	Weight   float64
	Reps     int
}

type CompleteWorkoutInput struct {
	Name string
	Sets []SetInput
}

// CompletedWorkout is a saved workout. PRs is index-aligned with Workout.Sets.
type CompletedWorkout struct {
	Workout domain.Workout
	Stats   domain.WorkoutStats
	PRs     []domain.PRKind
}

// Activity is one feed entry.
type Activity struct {
	Workout domain.Workout
	Stats   domain.WorkoutStats
}
