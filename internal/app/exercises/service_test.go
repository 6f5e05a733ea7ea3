package exercises

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	memclock "github.com/liftlog/liftlog-api/internal/adapters/memory/clock"
	memexerciserepo "github.com/liftlog/liftlog-api/internal/adapters/memory/exerciserepo"
	"github.com/liftlog/liftlog-api/internal/ports/out/exerciserepo"
)

// faultyRepo wraps the memory repo and lets tests inject store behavior.
type faultyRepo struct {
	*memexerciserepo.Repo

	searchErr error
	// searchRelease, when set, holds SearchByKey until closed or ctx is done.
	searchRelease chan struct{}
	searchEntered chan struct{}
	enterOnce     sync.Once
	appendErr     error
	getErr        error
	// beforeAppend runs before the wrapped Append, e.g. to simulate a concurrent writer.
	beforeAppend func()
}

func (r *faultyRepo) SearchByKey(ctx context.Context, fragment string, limit int) ([]exerciserepo.Exercise, error) {
	if r.searchRelease != nil {
		r.enterOnce.Do(func() { close(r.searchEntered) })
		select {
		case <-r.searchRelease:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	return r.Repo.SearchByKey(ctx, fragment, limit)
}

func (r *faultyRepo) Append(ctx context.Context, e exerciserepo.Exercise) error {
	if r.beforeAppend != nil {
		r.beforeAppend()
	}
	if r.appendErr != nil {
		return r.appendErr
	}
	return r.Repo.Append(ctx, e)
}

func (r *faultyRepo) GetByKey(ctx context.Context, key string) (exerciserepo.Exercise, error) {
	if r.getErr != nil {
		return exerciserepo.Exercise{}, r.getErr
	}
	return r.Repo.GetByKey(ctx, key)
}

func newTestService(repo exerciserepo.Repository) *Service {
	return NewService(repo, memclock.NewManualClock(time.Unix(100, 0).UTC()), nil)
}

func TestService_Resolve_VariantsShareFirstSpelling(t *testing.T) {
	t.Parallel()

	repo := memexerciserepo.NewRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	first, err := svc.Resolve(ctx, "Push-Ups")
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	if !first.Created || first.Exercise.Name != "Push-Ups" || first.Exercise.Key != "pushup" {
		t.Fatalf("first=%+v", first)
	}

	for _, raw := range []string{"pushups", "Push Up", "  push up  "} {
		got, err := svc.Resolve(ctx, raw)
		if err != nil {
			t.Fatalf("Resolve(%q) err=%v", raw, err)
		}
		if got.Created || got.Degraded || got.Exercise.Name != "Push-Ups" {
			t.Fatalf("Resolve(%q)=%+v, want existing Push-Ups", raw, got)
		}
	}

	all, _ := repo.List(ctx)
	if len(all) != 1 {
		t.Fatalf("vocabulary size=%d, want 1", len(all))
	}
}

func TestService_Resolve_AdoptsPersistedEntryMissingFromSnapshot(t *testing.T) {
	t.Parallel()

	repo := memexerciserepo.NewRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("Refresh err=%v", err)
	}
	// Another instance appends after our snapshot was taken.
	if err := repo.Append(ctx, exerciserepo.Exercise{Name: "Bench Press", Key: "benchpress"}); err != nil {
		t.Fatalf("Append err=%v", err)
	}

	got, err := svc.Resolve(ctx, "bench-press")
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	if got.Created || got.Exercise.Name != "Bench Press" {
		t.Fatalf("got=%+v, want adopted Bench Press", got)
	}
	if snap := svc.Snapshot(); len(snap) != 1 || snap[0].Name != "Bench Press" {
		t.Fatalf("snapshot=%+v", snap)
	}
}

func TestService_Resolve_ContainmentAloneDoesNotMerge(t *testing.T) {
	t.Parallel()

	repo := memexerciserepo.NewRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.Resolve(ctx, "Bench Press"); err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	got, err := svc.Resolve(ctx, "Press")
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	if !got.Created || got.Exercise.Name != "Press" {
		t.Fatalf("got=%+v, want new Press entry", got)
	}
}

func TestService_Refresh_LoadsVocabulary(t *testing.T) {
	t.Parallel()

	repo := memexerciserepo.NewRepo()
	ctx := context.Background()
	_ = repo.Append(ctx, exerciserepo.Exercise{Name: "squats", Key: "squat"})
	_ = repo.Append(ctx, exerciserepo.Exercise{Name: "Deadlift", Key: "deadlift"})

	fr := &faultyRepo{Repo: repo, searchErr: errors.New("must not be called")}
	svc := newTestService(fr)
	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("Refresh err=%v", err)
	}
	got, err := svc.Resolve(ctx, "Squat")
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	if got.Degraded || got.Exercise.Name != "squats" {
		t.Fatalf("got=%+v, want snapshot hit", got)
	}
	snap := svc.Snapshot()
	if len(snap) != 2 || snap[0].Name != "Deadlift" || snap[1].Name != "squats" {
		t.Fatalf("snapshot=%+v", snap)
	}
}

func TestService_Resolve_DuplicateInsertReturnsWinnerSpelling(t *testing.T) {
	t.Parallel()

	base := memexerciserepo.NewRepo()
	fr := &faultyRepo{Repo: base}
	fr.beforeAppend = func() {
		_ = base.Append(context.Background(), exerciserepo.Exercise{Name: "Pull-Ups", Key: "pullup"})
	}
	svc := newTestService(fr)

	got, err := svc.Resolve(context.Background(), "pull ups")
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	if got.Created || got.Degraded || got.Exercise.Name != "Pull-Ups" {
		t.Fatalf("got=%+v, want winner spelling", got)
	}
}

func TestService_Resolve_DuplicateInsertRereadFailureFallsBackToInput(t *testing.T) {
	t.Parallel()

	fr := &faultyRepo{
		Repo:      memexerciserepo.NewRepo(),
		appendErr: exerciserepo.ErrAlreadyExists,
		getErr:    errors.New("connection reset"),
	}
	svc := newTestService(fr)

	got, err := svc.Resolve(context.Background(), "Dips")
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	if got.Exercise.Name != "Dips" || got.Exercise.Key != "dip" || !got.Degraded {
		t.Fatalf("got=%+v", got)
	}
}

func TestService_Resolve_LookupFailureDegrades(t *testing.T) {
	t.Parallel()

	fr := &faultyRepo{Repo: memexerciserepo.NewRepo(), searchErr: errors.New("timeout")}
	svc := newTestService(fr)

	got, err := svc.Resolve(context.Background(), "  Lunges ")
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	if !got.Degraded || got.Created || got.Exercise.Name != "Lunges" {
		t.Fatalf("got=%+v, want degraded raw name", got)
	}
	all, _ := fr.List(context.Background())
	if len(all) != 0 {
		t.Fatalf("vocabulary must be untouched on lookup failure, got %+v", all)
	}
}

func TestService_Resolve_AppendFailureDegrades(t *testing.T) {
	t.Parallel()

	fr := &faultyRepo{Repo: memexerciserepo.NewRepo(), appendErr: errors.New("read-only")}
	svc := newTestService(fr)

	got, err := svc.Resolve(context.Background(), "Row")
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	if !got.Degraded || got.Exercise.Name != "Row" {
		t.Fatalf("got=%+v", got)
	}
}

func TestService_Resolve_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(memexerciserepo.NewRepo())
	for _, raw := range []string{"", "   ", "!!!", "--"} {
		_, err := svc.Resolve(context.Background(), raw)
		ae := (*Error)(nil)
		if !errors.As(err, &ae) || ae.Status != 422 || ae.Code != "VALIDATION_ERROR" {
			t.Fatalf("Resolve(%q) err=%v, want 422 VALIDATION_ERROR", raw, err)
		}
	}
}

func TestService_Resolve_ConcurrentVariantsAppendOnce(t *testing.T) {
	t.Parallel()

	repo := memexerciserepo.NewRepo()
	svc := newTestService(repo)
	variants := []string{"Push-Ups", "pushups", "Push Up", "PUSH UPS", "push-up"}

	var wg sync.WaitGroup
	names := make([]string, 40)
	for i := range names {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := svc.Resolve(context.Background(), variants[i%len(variants)])
			if err != nil {
				t.Errorf("Resolve err=%v", err)
				return
			}
			names[i] = got.Exercise.Name
		}(i)
	}
	wg.Wait()

	all, _ := repo.List(context.Background())
	if len(all) != 1 {
		t.Fatalf("vocabulary size=%d, want 1", len(all))
	}
	for i, n := range names {
		if n != all[0].Name {
			t.Fatalf("names[%d]=%q, want %q", i, n, all[0].Name)
		}
	}
}

// resolveAsync starts Resolve on its own goroutine.
func resolveAsync(ctx context.Context, svc *Service, raw string) <-chan Resolution {
	ch := make(chan Resolution, 1)
	go func() {
		got, _ := svc.Resolve(ctx, raw)
		ch <- got
	}()
	return ch
}

func TestService_Resolve_CancelledCallerDoesNotDegradeOthers(t *testing.T) {
	t.Parallel()

	fr := &faultyRepo{
		Repo:          memexerciserepo.NewRepo(),
		searchRelease: make(chan struct{}),
		searchEntered: make(chan struct{}),
	}
	svc := newTestService(fr)

	ctxA, cancelA := context.WithCancel(context.Background())
	a := resolveAsync(ctxA, svc, "Zercher Squat")
	<-fr.searchEntered
	b := resolveAsync(context.Background(), svc, "zercher squats")
	time.Sleep(20 * time.Millisecond)

	cancelA()
	time.Sleep(20 * time.Millisecond)
	close(fr.searchRelease)

	gotA, gotB := <-a, <-b
	if gotA.Degraded || gotA.Exercise.Name != "Zercher Squat" {
		t.Fatalf("first caller=%+v, want Zercher Squat", gotA)
	}
	if gotB.Degraded || gotB.Exercise.Name != "Zercher Squat" {
		t.Fatalf("second caller=%+v, want shared Zercher Squat", gotB)
	}
	all, _ := fr.List(context.Background())
	if len(all) != 1 {
		t.Fatalf("vocabulary=%+v, want one entry", all)
	}
}

func TestService_Resolve_CoalescedFallbackKeepsEachCallersInput(t *testing.T) {
	t.Parallel()

	fr := &faultyRepo{
		Repo:          memexerciserepo.NewRepo(),
		searchErr:     errors.New("timeout"),
		searchRelease: make(chan struct{}),
		searchEntered: make(chan struct{}),
	}
	svc := newTestService(fr)

	a := resolveAsync(context.Background(), svc, "Zercher Squat")
	<-fr.searchEntered
	b := resolveAsync(context.Background(), svc, "  zercher squats ")
	time.Sleep(20 * time.Millisecond)
	close(fr.searchRelease)

	gotA, gotB := <-a, <-b
	if !gotA.Degraded || gotA.Exercise.Name != "Zercher Squat" {
		t.Fatalf("first caller=%+v", gotA)
	}
	if !gotB.Degraded || gotB.Exercise.Name != "zercher squats" || gotB.Exercise.Key != "zerchersquat" {
		t.Fatalf("second caller=%+v, want its own trimmed input", gotB)
	}
}
