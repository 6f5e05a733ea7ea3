package profilerepo

import (
	"context"
	"time"

	"github.com/liftlog/liftlog-api/internal/domain"
)

// Profile is the persistence shape used by the profile repository.
type Profile struct {
	Subject     domain.SubjectID
	DisplayName string
	// CalorieGoal is nil when unset.
	CalorieGoal *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository provides access to user profiles, keyed by subject.
type Repository interface {
	Get(ctx context.Context, subject domain.SubjectID) (Profile, error)

	// Upsert writes the profile using last-write-wins semantics. CreatedAt of an existing
	// profile is preserved.
	Upsert(ctx context.Context, p Profile) error
}
