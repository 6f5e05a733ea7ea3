package records

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/liftlog/liftlog-api/internal/domain"
	"github.com/liftlog/liftlog-api/internal/ports/out/workoutrepo"
)

// Service answers personal-record questions from a lifter's saved sets.
type Service struct {
	workouts workoutrepo.Repository
	log      *slog.Logger
}

func NewService(workouts workoutrepo.Repository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{workouts: workouts, log: log}
}

// History returns every saved lift the subject has recorded for the exercise, matched by
// normalization key. The result is a point-in-time read.
func (s *Service) History(ctx context.Context, subject domain.SubjectID, exercise string) ([]domain.Lift, error) {
	key := domain.NormalizationKey(exercise)
	if key == "" {
		return []domain.Lift{}, nil
	}
	return s.workouts.ListLiftsByExerciseKey(ctx, subject, key)
}

// Classify reports whether candidate is a personal record for exercise.
//
// pending holds unsaved sets from the current session; those for the same exercise count as
// history. The result is advisory: a failed history read is logged and reported as none.
func (s *Service) Classify(ctx context.Context, subject domain.SubjectID, exercise string, candidate domain.Lift, pending []PendingLift) domain.PRKind {
	history, err := s.History(ctx, subject, exercise)
	if err != nil {
		s.log.WarnContext(ctx, "personal record history lookup failed",
			"subject", string(subject),
			"exercise", exercise,
			"err", err,
		)
		return domain.PRKindNone
	}
	key := domain.NormalizationKey(exercise)
	for _, p := range pending {
		if domain.NormalizationKey(p.Exercise) == key {
			history = append(history, p.Lift)
		}
	}
	return domain.ClassifyPR(candidate, history)
}

// PersonalBests returns the best lift per exercise, ordered by exercise name.
func (s *Service) PersonalBests(ctx context.Context, subject domain.SubjectID) ([]domain.PersonalBest, error) {
	sets, err := s.workouts.ListSetsByOwner(ctx, subject)
	if err != nil {
		return nil, err
	}

	type group struct {
		name  string
		lifts []domain.Lift
	}
	byKey := make(map[string]*group)
	for _, st := range sets {
		g, ok := byKey[st.ExerciseKey]
		if !ok {
			g = &group{name: st.Exercise}
			byKey[st.ExerciseKey] = g
		}
		g.lifts = append(g.lifts, domain.Lift{Weight: st.Weight, Reps: st.Reps})
	}

	out := make([]domain.PersonalBest, 0, len(byKey))
	for _, g := range byKey {
		best, ok := domain.BestLift(g.lifts)
		if !ok {
			continue
		}
		out = append(out, domain.PersonalBest{Exercise: g.name, Lift: best})
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Exercise) < strings.ToLower(out[j].Exercise)
	})
	return out, nil
}
