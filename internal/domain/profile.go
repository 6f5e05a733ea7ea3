package domain

import "time"

// Profile is the per-user record: a display name and the daily calorie goal.
type Profile struct {
	Subject     SubjectID
	DisplayName string
	// CalorieGoal is nil until the user sets one.
	CalorieGoal *int

	CreatedAt time.Time
	UpdatedAt time.Time
}
