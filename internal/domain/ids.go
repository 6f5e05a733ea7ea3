package domain

// SubjectID is the authenticated subject extracted from JWT claims (typically "sub").
// We model it as an opaque identifier: its format is controlled by the hosted auth backend.
type SubjectID string

// WorkoutID is an internal identifier for a completed workout.
type WorkoutID string

// TemplateID is an internal identifier for a premade workout template.
type TemplateID string

// CalorieEntryID is an internal identifier for a logged food entry.
type CalorieEntryID string

// LocationRecordID is an internal identifier for a pinned location record.
type LocationRecordID string
