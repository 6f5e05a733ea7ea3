package templaterepo

import (
	"context"
	"sort"
	"sync"

	"github.com/liftlog/liftlog-api/internal/domain"
	"github.com/liftlog/liftlog-api/internal/ports/out/templaterepo"
)

// Repo is an in-memory implementation of templaterepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.TemplateID]templaterepo.Template
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.TemplateID]templaterepo.Template)}
}

func (r *Repo) Create(ctx context.Context, t templaterepo.Template) error {
	_ = ctx
	if t.ID == "" {
		return templaterepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[t.ID]; ok {
		return templaterepo.ErrAlreadyExists
	}
	r.byID[t.ID] = cloneTemplate(t)
	return nil
}

func (r *Repo) Save(ctx context.Context, t templaterepo.Template) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[t.ID]
	if !ok {
		return templaterepo.ErrNotFound
	}
	// Ownership and creation time are immutable.
	t.Owner = existing.Owner
	t.CreatedAt = existing.CreatedAt
	r.byID[t.ID] = cloneTemplate(t)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.TemplateID) (templaterepo.Template, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return templaterepo.Template{}, templaterepo.ErrNotFound
	}
	return cloneTemplate(t), nil
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.SubjectID) ([]templaterepo.Template, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]templaterepo.Template, 0)
	for _, t := range r.byID {
		if t.Owner == owner {
			out = append(out, cloneTemplate(t))
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

func (r *Repo) Delete(ctx context.Context, id domain.TemplateID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return templaterepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func cloneTemplate(t templaterepo.Template) templaterepo.Template {
	out := t
	out.Entries = append([]templaterepo.Entry(nil), t.Entries...)
	return out
}
