package templates

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-api/internal/app/exercises"
	"github.com/liftlog/liftlog-api/internal/domain"
	clockport "github.com/liftlog/liftlog-api/internal/ports/out/clock"
	"github.com/liftlog/liftlog-api/internal/ports/out/templaterepo"
)

// ExerciseResolver canonicalizes user-typed exercise names.
type ExerciseResolver interface {
	Resolve(ctx context.Context, raw string) (exercises.Resolution, error)
}

type Service struct {
	repo      templaterepo.Repository
	exercises ExerciseResolver
	clk       clockport.Clock

	newTemplateID func() domain.TemplateID
}

func NewService(repo templaterepo.Repository, exercises ExerciseResolver, clk clockport.Clock) *Service {
	return &Service{
		repo:      repo,
		exercises: exercises,
		clk:       clk,
		newTemplateID: func() domain.TemplateID {
			return domain.TemplateID(uuid.NewString())
		},
	}
}

func (s *Service) CreateTemplate(ctx context.Context, subject domain.SubjectID, in CreateTemplateInput) (domain.Template, error) {
	name, err := validateName(in.Name)
	if err != nil {
		return domain.Template{}, err
	}
	entries, err := s.canonicalEntries(ctx, in.Entries)
	if err != nil {
		return domain.Template{}, err
	}

	now := s.clk.Now()
	t := templaterepo.Template{
		ID:        s.newTemplateID(),
		Owner:     subject,
		Name:      name,
		Entries:   entries,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return domain.Template{}, err
	}
	return toDomain(t), nil
}

func (s *Service) ListTemplates(ctx context.Context, subject domain.SubjectID) ([]domain.Template, error) {
	ts, err := s.repo.ListByOwner(ctx, subject)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Template, 0, len(ts))
	for _, t := range ts {
		out = append(out, toDomain(t))
	}
	return out, nil
}

func (s *Service) GetTemplate(ctx context.Context, subject domain.SubjectID, id domain.TemplateID) (domain.Template, error) {
	t, err := s.getOwned(ctx, subject, id)
	if err != nil {
		return domain.Template{}, err
	}
	return toDomain(t), nil
}

func (s *Service) UpdateTemplate(ctx context.Context, subject domain.SubjectID, id domain.TemplateID, in UpdateTemplateInput) (domain.Template, error) {
	t, err := s.getOwned(ctx, subject, id)
	if err != nil {
		return domain.Template{}, err
	}

	if in.Name.IsSpecified() {
		if in.Name.IsNull() {
			return domain.Template{}, &Error{
				Status:  422,
				Code:    "VALIDATION_ERROR",
				Message: "invalid name",
				Details: map[string]any{"name": "cannot be null"},
			}
		}
		name, err := validateName(in.Name.Value())
		if err != nil {
			return domain.Template{}, err
		}
		t.Name = name
	}

	if in.Entries.IsSpecified() {
		if in.Entries.IsNull() {
			t.Entries = []templaterepo.Entry{}
		} else {
			entries, err := s.canonicalEntries(ctx, in.Entries.Value())
			if err != nil {
				return domain.Template{}, err
			}
			t.Entries = entries
		}
	}

	t.UpdatedAt = s.clk.Now()
	if err := s.repo.Save(ctx, t); err != nil {
		if errors.Is(err, templaterepo.ErrNotFound) {
			return domain.Template{}, templateNotFound()
		}
		return domain.Template{}, err
	}
	return toDomain(t), nil
}

func (s *Service) DeleteTemplate(ctx context.Context, subject domain.SubjectID, id domain.TemplateID) error {
	if _, err := s.getOwned(ctx, subject, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, templaterepo.ErrNotFound) {
			return templateNotFound()
		}
		return err
	}
	return nil
}

func (s *Service) getOwned(ctx context.Context, subject domain.SubjectID, id domain.TemplateID) (templaterepo.Template, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, templaterepo.ErrNotFound) {
			return templaterepo.Template{}, templateNotFound()
		}
		return templaterepo.Template{}, err
	}
	if t.Owner != subject {
		return templaterepo.Template{}, templateNotFound()
	}
	return t, nil
}

func (s *Service) canonicalEntries(ctx context.Context, in []EntryInput) ([]templaterepo.Entry, error) {
	out := make([]templaterepo.Entry, 0, len(in))
	for i, e := range in {
		if p := (domain.Lift{Weight: e.Weight, Reps: e.Reps}).Problems(); p != nil {
			return nil, &Error{
				Status:  422,
				Code:    "VALIDATION_ERROR",
				Message: fmt.Sprintf("invalid exercise %d", i+1),
				Details: p,
			}
		}
		res, err := s.exercises.Resolve(ctx, e.Exercise)
		if err != nil {
			var ae *exercises.Error
			if errors.As(err, &ae) {
				return nil, &Error{
					Status:  ae.Status,
					Code:    ae.Code,
					Message: fmt.Sprintf("invalid exercise %d: %s", i+1, ae.Message),
					Details: ae.Details,
				}
			}
			return nil, err
		}
		out = append(out, templaterepo.Entry{Exercise: res.Exercise.Name, Weight: e.Weight, Reps: e.Reps})
	}
	return out, nil
}

func validateName(raw string) (string, error) {
	name := domain.NormalizeHumanName(raw)
	if name == "" {
		return "", &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid name",
			Details: map[string]any{"name": "must be non-empty"},
		}
	}
	return name, nil
}

func templateNotFound() *Error {
	return &Error{Status: 404, Code: "TEMPLATE_NOT_FOUND", Message: "template not found"}
}

func toDomain(t templaterepo.Template) domain.Template {
	entries := make([]domain.TemplateEntry, 0, len(t.Entries))
	for _, e := range t.Entries {
		entries = append(entries, domain.TemplateEntry{
			Exercise: e.Exercise,
			Lift:     domain.Lift{Weight: e.Weight, Reps: e.Reps},
		})
	}
	return domain.Template{
		ID:        t.ID,
		Owner:     t.Owner,
		Name:      t.Name,
		Entries:   entries,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
