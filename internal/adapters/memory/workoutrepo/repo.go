package workoutrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/liftlog/liftlog-api/internal/domain"
	"github.com/liftlog/liftlog-api/internal/ports/out/workoutrepo"
)

// Repo is an in-memory implementation of workoutrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID map[domain.WorkoutID]workoutrepo.Workout
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.WorkoutID]workoutrepo.Workout)}
}

func (r *Repo) Create(ctx context.Context, w workoutrepo.Workout) error {
	_ = ctx
	if w.ID == "" {
		return workoutrepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[w.ID]; ok {
		return workoutrepo.ErrAlreadyExists
	}
	r.byID[w.ID] = cloneWorkout(w)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.WorkoutID) (workoutrepo.Workout, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.byID[id]
	if !ok {
		return workoutrepo.Workout{}, workoutrepo.ErrNotFound
	}
	return cloneWorkout(w), nil
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.SubjectID) ([]workoutrepo.Workout, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]workoutrepo.Workout, 0)
	for _, w := range r.byID {
		if w.Owner == owner {
			out = append(out, cloneWorkout(w))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.WorkoutID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return workoutrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Repo) ListLiftsByExerciseKey(ctx context.Context, owner domain.SubjectID, key string) ([]domain.Lift, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Lift, 0)
	for _, w := range r.byID {
		if w.Owner != owner {
			continue
		}
		for _, s := range w.Sets {
			if s.ExerciseKey == key {
				out = append(out, domain.Lift{Weight: s.Weight, Reps: s.Reps})
			}
		}
	}
	return out, nil
}

func (r *Repo) ListSetsByOwner(ctx context.Context, owner domain.SubjectID) ([]workoutrepo.Set, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]workoutrepo.Set, 0)
	for _, w := range r.byID {
		if w.Owner == owner {
			out = append(out, w.Sets...)
		}
	}
	return out, nil
}

func cloneWorkout(w workoutrepo.Workout) workoutrepo.Workout {
	out := w
	out.Sets = append([]workoutrepo.Set(nil), w.Sets...)
	sort.SliceStable(out.Sets, func(i, j int) bool { return out.Sets[i].Number < out.Sets[j].Number })
	return out
}
