package exerciserepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/liftlog/liftlog-api/internal/ports/out/exerciserepo"
)

// Repo is an in-memory implementation of exerciserepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byKey map[string]exerciserepo.Exercise
}

func NewRepo() *Repo {
	return &Repo{byKey: make(map[string]exerciserepo.Exercise)}
}

func (r *Repo) List(ctx context.Context) ([]exerciserepo.Exercise, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]exerciserepo.Exercise, 0, len(r.byKey))
	for _, e := range r.byKey {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		ni, nj := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if ni == nj {
			return out[i].Key < out[j].Key
		}
		return ni < nj
	})
	return out, nil
}

func (r *Repo) GetByKey(ctx context.Context, key string) (exerciserepo.Exercise, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byKey[key]
	if !ok {
		return exerciserepo.Exercise{}, exerciserepo.ErrNotFound
	}
	return e, nil
}

func (r *Repo) SearchByKey(ctx context.Context, fragment string, limit int) ([]exerciserepo.Exercise, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]exerciserepo.Exercise, 0)
	for k, e := range r.byKey {
		if strings.Contains(k, fragment) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Key) == len(out[j].Key) {
			return out[i].Key < out[j].Key
		}
		return len(out[i].Key) < len(out[j].Key)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Repo) Append(ctx context.Context, e exerciserepo.Exercise) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byKey[e.Key]; ok {
		return exerciserepo.ErrAlreadyExists
	}
	r.byKey[e.Key] = e
	return nil
}
