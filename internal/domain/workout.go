package domain

import "time"

// SetRecord is one completed set. It is written once when the workout is saved and is
// only removed together with its workout.
type SetRecord struct {
	Number   int
	Exercise string
	Lift
}

// Workout is a completed workout and its sets in entry order.
type Workout struct {
	ID      WorkoutID
	Owner   SubjectID
	Name    string
	Sets    []SetRecord
	Created time.Time
}

// WorkoutStats are the aggregates shown on the activity feed.
type WorkoutStats struct {
	TotalVolume     float64
	UniqueExercises int
	TotalSets       int
}

// Stats folds the workout's sets into feed aggregates. Exercises are counted by
// normalization key so spelling variants are not double counted.
func (w Workout) Stats() WorkoutStats {
	seen := make(map[string]struct{}, len(w.Sets))
	var st WorkoutStats
	for _, s := range w.Sets {
		st.TotalVolume += s.Weight * float64(s.Reps)
		seen[NormalizationKey(s.Exercise)] = struct{}{}
	}
	st.UniqueExercises = len(seen)
	st.TotalSets = len(w.Sets)
	return st
}
