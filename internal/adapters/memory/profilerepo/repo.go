package profilerepo

import (
	"context"
	"sync"

	"github.com/liftlog/liftlog-api/internal/domain"
	"github.com/liftlog/liftlog-api/internal/ports/out/profilerepo"
)

// Repo is an in-memory implementation of profilerepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu        sync.RWMutex
	bySubject map[domain.SubjectID]profilerepo.Profile
}

func NewRepo() *Repo {
	return &Repo{bySubject: make(map[domain.SubjectID]profilerepo.Profile)}
}

func (r *Repo) Get(ctx context.Context, subject domain.SubjectID) (profilerepo.Profile, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.bySubject[subject]
	if !ok {
		return profilerepo.Profile{}, profilerepo.ErrNotFound
	}
	return cloneProfile(p), nil
}

func (r *Repo) Upsert(ctx context.Context, p profilerepo.Profile) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.bySubject[p.Subject]; ok {
		p.CreatedAt = existing.CreatedAt
	}
	r.bySubject[p.Subject] = cloneProfile(p)
	return nil
}

func cloneProfile(p profilerepo.Profile) profilerepo.Profile {
	out := p
	if p.CalorieGoal != nil {
		v := *p.CalorieGoal
		out.CalorieGoal = &v
	}
	return out
}
