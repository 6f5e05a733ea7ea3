package calories

import (
	"time"

	"github.com/liftlog/liftlog-api/internal/domain"
)

type AddEntryInput struct {
	FoodName string
	Calories int
	// Date is nil for today.
	Date *time.Time
}

// HistoryDay is one day of the calorie log.
type HistoryDay struct {
	Date    time.Time
	Entries []domain.CalorieEntry
	Total   int
}
