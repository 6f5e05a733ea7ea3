package calorierepo

import (
	"context"
	"time"

	"github.com/liftlog/liftlog-api/internal/domain"
)

// Entry is the persistence shape of a logged food item.
type Entry struct {
	ID       domain.CalorieEntryID
	Owner    domain.SubjectID
	FoodName string
	Calories int
	// Date is a calendar day stored as midnight UTC.
	Date time.Time

	CreatedAt time.Time
}

// Range restricts a listing to [From, To] inclusive; nil bounds are open.
type Range struct {
	From *time.Time
	To   *time.Time
}

// Repository provides access to calorie entries.
//
// ListByOwner returns entries ordered by Date descending, then CreatedAt ascending, then ID.
type Repository interface {
	Add(ctx context.Context, e Entry) error
	GetByID(ctx context.Context, id domain.CalorieEntryID) (Entry, error)
	Delete(ctx context.Context, id domain.CalorieEntryID) error
	ListByOwner(ctx context.Context, owner domain.SubjectID, r Range) ([]Entry, error)
}
