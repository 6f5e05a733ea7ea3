package templaterepo

import (
	"context"
	"time"

	"github.com/liftlog/liftlog-api/internal/domain"
)

type Entry struct {
	Exercise string  `json:"exercise"`
	Weight   float64 `json:"weight"`
	Reps     int     `json:"reps"`
}

// Template is the persistence shape of a premade workout.
// Entries are stored as one ordered document.
type Template struct {
	ID      domain.TemplateID
	Owner   domain.SubjectID
	Name    string
	Entries []Entry

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository provides access to premade workout templates.
//
// ListByOwner returns newest first (CreatedAt descending, then ID).
type Repository interface {
	Create(ctx context.Context, t Template) error
	Save(ctx context.Context, t Template) error
	GetByID(ctx context.Context, id domain.TemplateID) (Template, error)
	ListByOwner(ctx context.Context, owner domain.SubjectID) ([]Template, error)
	Delete(ctx context.Context, id domain.TemplateID) error
}
