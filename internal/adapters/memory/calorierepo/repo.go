package calorierepo

import (
	"context"
	"sort"
	"sync"

	"github.com/liftlog/liftlog-api/internal/domain"
	"github.com/liftlog/liftlog-api/internal/ports/out/calorierepo"
)

// Repo is an in-memory implementation of calorierepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.CalorieEntryID]calorierepo.Entry
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.CalorieEntryID]calorierepo.Entry)}
}

func (r *Repo) Add(ctx context.Context, e calorierepo.Entry) error {
	_ = ctx
	if e.ID == "" {
		return calorierepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[e.ID]; ok {
		return calorierepo.ErrAlreadyExists
	}
	e.Date = domain.DateOnly(e.Date)
	r.byID[e.ID] = e
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.CalorieEntryID) (calorierepo.Entry, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	if !ok {
		return calorierepo.Entry{}, calorierepo.ErrNotFound
	}
	return e, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.CalorieEntryID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return calorierepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.SubjectID, rng calorierepo.Range) ([]calorierepo.Entry, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]calorierepo.Entry, 0)
	for _, e := range r.byID {
		if e.Owner != owner {
			continue
		}
		if rng.From != nil && e.Date.Before(domain.DateOnly(*rng.From)) {
			continue
		}
		if rng.To != nil && e.Date.After(domain.DateOnly(*rng.To)) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out, nil
}
