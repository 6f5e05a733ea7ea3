package domain

import "time"

// CalorieEntry is one logged food item. Date has date-only semantics (UTC midnight).
type CalorieEntry struct {
	ID        CalorieEntryID
	Owner     SubjectID
	FoodName  string
	Calories  int
	Date      time.Time
	CreatedAt time.Time
}

// CalorieDay is a day's entries folded against the daily goal.
type CalorieDay struct {
	Date    time.Time
	Entries []CalorieEntry
	Total   int

	// Goal and Remaining are nil when the user has not set a goal.
	Goal      *int
	Remaining *int
}

// DateOnly truncates t to midnight UTC of its UTC calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
