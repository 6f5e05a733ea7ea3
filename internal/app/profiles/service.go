package profiles

import (
	"context"
	"errors"

	"github.com/liftlog/liftlog-api/internal/domain"
	clockport "github.com/liftlog/liftlog-api/internal/ports/out/clock"
	"github.com/liftlog/liftlog-api/internal/ports/out/profilerepo"
)

// MaxCalorieGoal rejects goals that can only be typos.
const MaxCalorieGoal = 20000

type Service struct {
	repo profilerepo.Repository
	clk  clockport.Clock
}

func NewService(repo profilerepo.Repository, clk clockport.Clock) *Service {
	return &Service{repo: repo, clk: clk}
}

// GetMyProfile returns the caller's profile. A subject that never wrote one gets an empty
// profile rather than an error: sign-up happens in the hosted auth backend.
func (s *Service) GetMyProfile(ctx context.Context, subject domain.SubjectID) (domain.Profile, error) {
	p, err := s.repo.Get(ctx, subject)
	if err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return domain.Profile{Subject: subject}, nil
		}
		return domain.Profile{}, err
	}
	return toDomain(p), nil
}

// UpsertMyProfile sets the display name, keeping any calorie goal already stored.
func (s *Service) UpsertMyProfile(ctx context.Context, subject domain.SubjectID, displayName string) (domain.Profile, error) {
	name := domain.NormalizeHumanName(displayName)
	if name == "" {
		return domain.Profile{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid displayName",
			Details: map[string]any{"displayName": "must be non-empty"},
		}
	}
	p, err := s.load(ctx, subject)
	if err != nil {
		return domain.Profile{}, err
	}
	p.DisplayName = name
	return s.save(ctx, p)
}

func (s *Service) UpdateMyProfile(ctx context.Context, subject domain.SubjectID, in UpdateMyProfileInput) (domain.Profile, error) {
	p, err := s.load(ctx, subject)
	if err != nil {
		return domain.Profile{}, err
	}

	if in.DisplayName.IsSpecified() {
		if in.DisplayName.IsNull() {
			return domain.Profile{}, &Error{
				Status:  422,
				Code:    "VALIDATION_ERROR",
				Message: "invalid displayName",
				Details: map[string]any{"displayName": "cannot be null"},
			}
		}
		name := domain.NormalizeHumanName(in.DisplayName.Value())
		if name == "" {
			return domain.Profile{}, &Error{
				Status:  422,
				Code:    "VALIDATION_ERROR",
				Message: "invalid displayName",
				Details: map[string]any{"displayName": "must be non-empty"},
			}
		}
		p.DisplayName = name
	}

	if in.CalorieGoal.IsSpecified() {
		if in.CalorieGoal.IsNull() {
			p.CalorieGoal = nil
		} else {
			goal := in.CalorieGoal.Value()
			if err := validateGoal(goal); err != nil {
				return domain.Profile{}, err
			}
			p.CalorieGoal = &goal
		}
	}

	return s.save(ctx, p)
}

// SetCalorieGoal replaces the daily calorie goal.
func (s *Service) SetCalorieGoal(ctx context.Context, subject domain.SubjectID, goal int) (domain.Profile, error) {
	return s.UpdateMyProfile(ctx, subject, UpdateMyProfileInput{CalorieGoal: Some(goal)})
}

func validateGoal(goal int) error {
	if goal <= 0 || goal > MaxCalorieGoal {
		return &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid calorieGoal",
			Details: map[string]any{"calorieGoal": "must be between 1 and 20000"},
		}
	}
	return nil
}

func (s *Service) load(ctx context.Context, subject domain.SubjectID) (profilerepo.Profile, error) {
	p, err := s.repo.Get(ctx, subject)
	if err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			now := s.clk.Now()
			return profilerepo.Profile{Subject: subject, CreatedAt: now}, nil
		}
		return profilerepo.Profile{}, err
	}
	return p, nil
}

func (s *Service) save(ctx context.Context, p profilerepo.Profile) (domain.Profile, error) {
	p.UpdatedAt = s.clk.Now()
	if err := s.repo.Upsert(ctx, p); err != nil {
		return domain.Profile{}, err
	}
	return toDomain(p), nil
}

func toDomain(p profilerepo.Profile) domain.Profile {
	return domain.Profile{
		Subject:     p.Subject,
		DisplayName: p.DisplayName,
		CalorieGoal: cloneIntPtr(p.CalorieGoal),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
