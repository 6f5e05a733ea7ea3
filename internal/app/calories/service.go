package calories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-api/internal/domain"
	"github.com/liftlog/liftlog-api/internal/ports/out/calorierepo"
	clockport "github.com/liftlog/liftlog-api/internal/ports/out/clock"
)

// MaxEntryCalories bounds a single food entry.
const MaxEntryCalories = 10000

// Goals reads and writes the daily goal kept on the lifter's profile.
type Goals interface {
	GetMyProfile(ctx context.Context, subject domain.SubjectID) (domain.Profile, error)
	SetCalorieGoal(ctx context.Context, subject domain.SubjectID, goal int) (domain.Profile, error)
}

type Service struct {
	repo  calorierepo.Repository
	goals Goals
	clk   clockport.Clock

	newEntryID func() domain.CalorieEntryID

	// HistoryDays bounds how far back History reads. Zero means unbounded.
	HistoryDays int
}

func NewService(repo calorierepo.Repository, goals Goals, clk clockport.Clock) *Service {
	return &Service{
		repo:  repo,
		goals: goals,
		clk:   clk,
		newEntryID: func() domain.CalorieEntryID {
			return domain.CalorieEntryID(uuid.NewString())
		},
		HistoryDays: 90,
	}
}

func (s *Service) SetGoal(ctx context.Context, subject domain.SubjectID, goal int) (int, error) {
	p, err := s.goals.SetCalorieGoal(ctx, subject, goal)
	if err != nil {
		return 0, err
	}
	return *p.CalorieGoal, nil
}

func (s *Service) AddEntry(ctx context.Context, subject domain.SubjectID, in AddEntryInput) (domain.CalorieEntry, error) {
	food := domain.NormalizeHumanName(in.FoodName)
	if food == "" {
		return domain.CalorieEntry{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid foodName",
			Details: map[string]any{"foodName": "must be non-empty"},
		}
	}
	if in.Calories <= 0 || in.Calories > MaxEntryCalories {
		return domain.CalorieEntry{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid calories",
			Details: map[string]any{"calories": "must be between 1 and 10000"},
		}
	}

	now := s.clk.Now()
	day := domain.DateOnly(now)
	if in.Date != nil {
		day = domain.DateOnly(*in.Date)
	}
	e := calorierepo.Entry{
		ID:        s.newEntryID(),
		Owner:     subject,
		FoodName:  food,
		Calories:  in.Calories,
		Date:      day,
		CreatedAt: now,
	}
	if err := s.repo.Add(ctx, e); err != nil {
		return domain.CalorieEntry{}, err
	}
	return toDomain(e), nil
}

func (s *Service) DeleteEntry(ctx context.Context, subject domain.SubjectID, id domain.CalorieEntryID) error {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, calorierepo.ErrNotFound) {
			return entryNotFound()
		}
		return err
	}
	if e.Owner != subject {
		return entryNotFound()
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, calorierepo.ErrNotFound) {
			return entryNotFound()
		}
		return err
	}
	return nil
}

// Day folds one day's entries against the lifter's goal. A nil date means today.
func (s *Service) Day(ctx context.Context, subject domain.SubjectID, date *time.Time) (domain.CalorieDay, error) {
	day := domain.DateOnly(s.clk.Now())
	if date != nil {
		day = domain.DateOnly(*date)
	}
	es, err := s.repo.ListByOwner(ctx, subject, calorierepo.Range{From: &day, To: &day})
	if err != nil {
		return domain.CalorieDay{}, err
	}
	p, err := s.goals.GetMyProfile(ctx, subject)
	if err != nil {
		return domain.CalorieDay{}, err
	}

	out := domain.CalorieDay{Date: day, Entries: make([]domain.CalorieEntry, 0, len(es))}
	for _, e := range es {
		out.Entries = append(out.Entries, toDomain(e))
		out.Total += e.Calories
	}
	if p.CalorieGoal != nil {
		goal := *p.CalorieGoal
		remaining := goal - out.Total
		out.Goal = &goal
		out.Remaining = &remaining
	}
	return out, nil
}

// History groups entries by day, newest day first.
func (s *Service) History(ctx context.Context, subject domain.SubjectID) ([]HistoryDay, error) {
	var rng calorierepo.Range
	if s.HistoryDays > 0 {
		from := domain.DateOnly(s.clk.Now()).AddDate(0, 0, -(s.HistoryDays - 1))
		rng.From = &from
	}
	es, err := s.repo.ListByOwner(ctx, subject, rng)
	if err != nil {
		return nil, err
	}

	out := make([]HistoryDay, 0)
	for _, e := range es {
		if n := len(out); n == 0 || !out[n-1].Date.Equal(e.Date) {
			out = append(out, HistoryDay{Date: e.Date})
		}
		cur := &out[len(out)-1]
		cur.Entries = append(cur.Entries, toDomain(e))
		cur.Total += e.Calories
	}
	return out, nil
}

func entryNotFound() *Error {
	return &Error{Status: 404, Code: "CALORIE_ENTRY_NOT_FOUND", Message: "calorie entry not found"}
}

func toDomain(e calorierepo.Entry) domain.CalorieEntry {
	return domain.CalorieEntry{
		ID:        e.ID,
		Owner:     e.Owner,
		FoodName:  strings.TrimSpace(e.FoodName),
		Calories:  e.Calories,
		Date:      e.Date,
		CreatedAt: e.CreatedAt,
	}
}
