package workouts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-api/internal/app/exercises"
	"github.com/liftlog/liftlog-api/internal/app/records"
	"github.com/liftlog/liftlog-api/internal/domain"
	clockport "github.com/liftlog/liftlog-api/internal/ports/out/clock"
	"github.com/liftlog/liftlog-api/internal/ports/out/workoutrepo"
)

// ExerciseResolver canonicalizes user-typed exercise names.
type ExerciseResolver interface {
	Resolve(ctx context.Context, raw string) (exercises.Resolution, error)
}

// RecordClassifier classifies a lift against a lifter's history.
type RecordClassifier interface {
	Classify(ctx context.Context, subject domain.SubjectID, exercise string, candidate domain.Lift, pending []records.PendingLift) domain.PRKind
}

type Service struct {
	repo      workoutrepo.Repository
	exercises ExerciseResolver
	records   RecordClassifier
	clk       clockport.Clock

	newWorkoutID func() domain.WorkoutID

	// MaxSets bounds the number of sets accepted in one workout.
	MaxSets int
}

func NewService(repo workoutrepo.Repository, exercises ExerciseResolver, records RecordClassifier, clk clockport.Clock) *Service {
	return &Service{
		repo:      repo,
		exercises: exercises,
		records:   records,
		clk:       clk,
		newWorkoutID: func() domain.WorkoutID {
			return domain.WorkoutID(uuid.NewString())
		},
		MaxSets: 500,
	}
}

// CheckSet canonicalizes the entered exercise and classifies the lift against the lifter's
// history plus the pending sets of the current session.
func (s *Service) CheckSet(ctx context.Context, subject domain.SubjectID, in CheckSetInput) (SetCheck, error) {
	lift := domain.Lift{Weight: in.Weight, Reps: in.Reps}
	if p := lift.Problems(); p != nil {
		return SetCheck{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid set",
			Details: p,
		}
	}
	res, err := s.exercises.Resolve(ctx, in.Exercise)
	if err != nil {
		return SetCheck{}, err
	}
	pr := s.records.Classify(ctx, subject, res.Exercise.Name, lift, in.Pending)
	return SetCheck{
		Exercise: res.Exercise,
		Created:  res.Created,
		Degraded: res.Degraded,
		PR:       pr,
	}, nil
}

// CompleteWorkout saves a workout. Each set is canonicalized and classified against history
// and the earlier sets of the same workout before anything is written.
func (s *Service) CompleteWorkout(ctx context.Context, subject domain.SubjectID, in CompleteWorkoutInput) (CompletedWorkout, error) {
	name := domain.NormalizeHumanName(in.Name)
	if name == "" {
		return CompletedWorkout{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid workout name",
			Details: map[string]any{"name": "must be non-empty"},
		}
	}
	if len(in.Sets) == 0 {
		return CompletedWorkout{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid workout",
			Details: map[string]any{"sets": "must contain at least one set"},
		}
	}
	if s.MaxSets > 0 && len(in.Sets) > s.MaxSets {
		return CompletedWorkout{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid workout",
			Details: map[string]any{"sets": fmt.Sprintf("must contain at most %d sets", s.MaxSets)},
		}
	}
	for i, st := range in.Sets {
		if p := (domain.Lift{Weight: st.Weight, Reps: st.Reps}).Problems(); p != nil {
			return CompletedWorkout{}, &Error{
				Status:  422,
				Code:    "VALIDATION_ERROR",
				Message: fmt.Sprintf("invalid set %d", i+1),
				Details: p,
			}
		}
	}

	w := domain.Workout{
		ID:      s.newWorkoutID(),
		Owner:   subject,
		Name:    name,
		Sets:    make([]domain.SetRecord, 0, len(in.Sets)),
		Created: s.clk.Now(),
	}
	prs := make([]domain.PRKind, 0, len(in.Sets))
	pending := make([]records.PendingLift, 0, len(in.Sets))
	rows := make([]workoutrepo.Set, 0, len(in.Sets))
	for i, st := range in.Sets {
		res, err := s.exercises.Resolve(ctx, st.Exercise)
		if err != nil {
			var ae *exercises.Error
			if errors.As(err, &ae) {
				return CompletedWorkout{}, &Error{
					Status:  ae.Status,
					Code:    ae.Code,
					Message: fmt.Sprintf("invalid set %d: %s", i+1, ae.Message),
					Details: ae.Details,
				}
			}
			return CompletedWorkout{}, err
		}
		lift := domain.Lift{Weight: st.Weight, Reps: st.Reps}
		prs = append(prs, s.records.Classify(ctx, subject, res.Exercise.Name, lift, pending))
		pending = append(pending, records.PendingLift{Exercise: res.Exercise.Name, Lift: lift})

		w.Sets = append(w.Sets, domain.SetRecord{Number: i + 1, Exercise: res.Exercise.Name, Lift: lift})
		rows = append(rows, workoutrepo.Set{
			Number:      i + 1,
			Exercise:    res.Exercise.Name,
			ExerciseKey: res.Exercise.Key,
			Weight:      lift.Weight,
			Reps:        lift.Reps,
		})
	}

	if err := s.repo.Create(ctx, workoutrepo.Workout{
		ID:        w.ID,
		Owner:     w.Owner,
		Name:      w.Name,
		Sets:      rows,
		CreatedAt: w.Created,
	}); err != nil {
		return CompletedWorkout{}, err
	}
	return CompletedWorkout{Workout: w, Stats: w.Stats(), PRs: prs}, nil
}

// ListActivity returns the subject's workouts, newest first, with feed aggregates.
func (s *Service) ListActivity(ctx context.Context, subject domain.SubjectID) ([]Activity, error) {
	ws, err := s.repo.ListByOwner(ctx, subject)
	if err != nil {
		return nil, err
	}
	out := make([]Activity, 0, len(ws))
	for _, rw := range ws {
		w := toDomain(rw)
		out = append(out, Activity{Workout: w, Stats: w.Stats()})
	}
	return out, nil
}

func (s *Service) GetWorkout(ctx context.Context, subject domain.SubjectID, id domain.WorkoutID) (Activity, error) {
	rw, err := s.getOwned(ctx, subject, id)
	if err != nil {
		return Activity{}, err
	}
	w := toDomain(rw)
	return Activity{Workout: w, Stats: w.Stats()}, nil
}

func (s *Service) DeleteWorkout(ctx context.Context, subject domain.SubjectID, id domain.WorkoutID) error {
	if _, err := s.getOwned(ctx, subject, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, workoutrepo.ErrNotFound) {
			return workoutNotFound()
		}
		return err
	}
	return nil
}

// getOwned hides other lifters' workouts behind the same 404 as missing ones.
func (s *Service) getOwned(ctx context.Context, subject domain.SubjectID, id domain.WorkoutID) (workoutrepo.Workout, error) {
	rw, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, workoutrepo.ErrNotFound) {
			return workoutrepo.Workout{}, workoutNotFound()
		}
		return workoutrepo.Workout{}, err
	}
	if rw.Owner != subject {
		return workoutrepo.Workout{}, workoutNotFound()
	}
	return rw, nil
}

func workoutNotFound() *Error {
	return &Error{Status: 404, Code: "WORKOUT_NOT_FOUND", Message: "workout not found"}
}

func toDomain(w workoutrepo.Workout) domain.Workout {
	sets := make([]domain.SetRecord, 0, len(w.Sets))
	for _, s := range w.Sets {
		sets = append(sets, domain.SetRecord{
			Number:   s.Number,
			Exercise: s.Exercise,
			Lift:     domain.Lift{Weight: s.Weight, Reps: s.Reps},
		})
	}
	return domain.Workout{
		ID:      w.ID,
		Owner:   w.Owner,
		Name:    w.Name,
		Sets:    sets,
		Created: w.CreatedAt,
	}
}
