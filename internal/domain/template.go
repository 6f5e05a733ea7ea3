package domain

import "time"

// TemplateEntry is one planned set in a premade workout.
type TemplateEntry struct {
	Exercise string
	Lift
}

// Template is a premade workout owned by the user that created it.
type Template struct {
	ID        TemplateID
	Owner     SubjectID
	Name      string
	Entries   []TemplateEntry
	CreatedAt time.Time
	UpdatedAt time.Time
}
