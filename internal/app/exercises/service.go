package exercises

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/liftlog/liftlog-api/internal/domain"
	clockport "github.com/liftlog/liftlog-api/internal/ports/out/clock"
	"github.com/liftlog/liftlog-api/internal/ports/out/exerciserepo"
)

// Service canonicalizes exercise names against the shared vocabulary.
//
// It keeps a snapshot of the vocabulary in memory. The snapshot is loaded by Refresh and
// grows as Resolve adopts or appends entries; it never shrinks, matching the append-only store.
type Service struct {
	repo exerciserepo.Repository
	clk  clockport.Clock
	log  *slog.Logger

	group singleflight.Group

	mu       sync.RWMutex
	snapshot map[string]domain.CanonicalExercise

	// SearchLimit bounds the secondary containment lookup.
	SearchLimit int
	// LookupTimeout bounds a coalesced store round trip.
	LookupTimeout time.Duration
}

func NewService(repo exerciserepo.Repository, clk clockport.Clock, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:          repo,
		clk:           clk,
		log:           log,
		snapshot:      make(map[string]domain.CanonicalExercise),
		SearchLimit:   25,
		LookupTimeout: 5 * time.Second,
	}
}

// Refresh replaces the snapshot with the persisted vocabulary.
func (s *Service) Refresh(ctx context.Context) error {
	es, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	next := make(map[string]domain.CanonicalExercise, len(es))
	for _, e := range es {
		if _, ok := next[e.Key]; !ok {
			next[e.Key] = domain.CanonicalExercise{Name: e.Name, Key: e.Key}
		}
	}
	s.mu.Lock()
	s.snapshot = next
	s.mu.Unlock()
	return nil
}

// List returns the persisted vocabulary ordered by name.
func (s *Service) List(ctx context.Context) ([]domain.CanonicalExercise, error) {
	es, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CanonicalExercise, 0, len(es))
	for _, e := range es {
		out = append(out, domain.CanonicalExercise{Name: e.Name, Key: e.Key})
	}
	return out, nil
}

// Snapshot returns the in-memory vocabulary ordered by name.
func (s *Service) Snapshot() []domain.CanonicalExercise {
	s.mu.RLock()
	out := make([]domain.CanonicalExercise, 0, len(s.snapshot))
	for _, c := range s.snapshot {
		out = append(out, c)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		ni, nj := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if ni == nj {
			return out[i].Key < out[j].Key
		}
		return ni < nj
	})
	return out
}

// Resolve maps a user-typed name to its canonical exercise, appending raw to the vocabulary
// when no entry shares its normalization key.
//
// Store failures never fail the call: the trimmed input is returned with Degraded set.
func (s *Service) Resolve(ctx context.Context, raw string) (Resolution, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return Resolution{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid exercise name",
			Details: map[string]any{"exercise": "must be non-empty"},
		}
	}
	key := domain.NormalizationKey(name)
	if key == "" {
		return Resolution{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid exercise name",
			Details: map[string]any{"exercise": "must contain at least one letter or digit"},
		}
	}

	if c, ok := s.cached(key); ok {
		return Resolution{Exercise: c}, nil
	}

	// The shared lookup outlives any one caller; a disconnect must not degrade the others.
	v, _, _ := s.group.Do(key, func() (any, error) {
		sctx, cancel := context.WithoutCancel(ctx), context.CancelFunc(func() {})
		if s.LookupTimeout > 0 {
			sctx, cancel = context.WithTimeout(sctx, s.LookupTimeout)
		}
		defer cancel()
		return s.resolveMiss(sctx, name, key), nil
	})
	res := v.(Resolution)
	if res.Degraded {
		res.Exercise = domain.CanonicalExercise{Name: name, Key: key}
		res.Created = false
	}
	return res, nil
}

func (s *Service) resolveMiss(ctx context.Context, name, key string) Resolution {
	// A coalesced caller may have populated the snapshot while we waited.
	if c, ok := s.cached(key); ok {
		return Resolution{Exercise: c}
	}

	fallback := Resolution{Exercise: domain.CanonicalExercise{Name: name, Key: key}, Degraded: true}

	candidates, err := s.repo.SearchByKey(ctx, key, s.SearchLimit)
	if err != nil {
		s.log.WarnContext(ctx, "exercise lookup failed", "key", key, "err", err)
		return fallback
	}
	// Containment narrows the scan; only an equal key is the same exercise.
	for _, e := range candidates {
		if e.Key == key {
			return Resolution{Exercise: s.remember(e)}
		}
	}

	err = s.repo.Append(ctx, exerciserepo.Exercise{Name: name, Key: key, CreatedAt: s.clk.Now()})
	switch {
	case err == nil:
		c := s.remember(exerciserepo.Exercise{Name: name, Key: key})
		s.log.InfoContext(ctx, "exercise added to vocabulary", "name", name, "key", key)
		return Resolution{Exercise: c, Created: true}
	case errors.Is(err, exerciserepo.ErrAlreadyExists):
		// Lost the insert race; the winner's spelling is canonical.
		e, gerr := s.repo.GetByKey(ctx, key)
		if gerr != nil {
			s.log.WarnContext(ctx, "exercise re-read after duplicate insert failed", "key", key, "err", gerr)
			return fallback
		}
		return Resolution{Exercise: s.remember(e)}
	default:
		s.log.WarnContext(ctx, "exercise append failed", "key", key, "err", err)
		return fallback
	}
}

func (s *Service) cached(key string) (domain.CanonicalExercise, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.snapshot[key]
	return c, ok
}

// remember merges e into the snapshot, keeping an existing spelling if one is present.
func (s *Service) remember(e exerciserepo.Exercise) domain.CanonicalExercise {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.snapshot[e.Key]; ok {
		return c
	}
	c := domain.CanonicalExercise{Name: e.Name, Key: e.Key}
	s.snapshot[e.Key] = c
	return c
}
