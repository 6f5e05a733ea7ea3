package locationrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/liftlog/liftlog-api/internal/domain"
	"github.com/liftlog/liftlog-api/internal/ports/out/locationrepo"
)

// Repo is an in-memory implementation of locationrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.LocationRecordID]locationrepo.Record
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.LocationRecordID]locationrepo.Record)}
}

func (r *Repo) Add(ctx context.Context, rec locationrepo.Record) error {
	_ = ctx
	if rec.ID == "" {
		return locationrepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[rec.ID]; ok {
		return locationrepo.ErrAlreadyExists
	}
	r.byID[rec.ID] = rec
	return nil
}

func (r *Repo) List(ctx context.Context, exerciseKey string) ([]locationrepo.Record, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]locationrepo.Record, 0)
	for _, rec := range r.byID {
		if exerciseKey != "" && rec.ExerciseKey != exerciseKey {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (r *Repo) ListExercises(ctx context.Context) ([]string, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, rec := range r.byID {
		if _, ok := seen[rec.Exercise]; ok {
			continue
		}
		seen[rec.Exercise] = struct{}{}
		out = append(out, rec.Exercise)
	}
	sort.Strings(out)
	return out, nil
}
