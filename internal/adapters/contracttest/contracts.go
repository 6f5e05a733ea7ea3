package contracttest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-api/internal/domain"
	calorierepoport "github.com/liftlog/liftlog-api/internal/ports/out/calorierepo"
	exerciserepoport "github.com/liftlog/liftlog-api/internal/ports/out/exerciserepo"
	idempotencyport "github.com/liftlog/liftlog-api/internal/ports/out/idempotency"
	locationrepoport "github.com/liftlog/liftlog-api/internal/ports/out/locationrepo"
	profilerepoport "github.com/liftlog/liftlog-api/internal/ports/out/profilerepo"
	templaterepoport "github.com/liftlog/liftlog-api/internal/ports/out/templaterepo"
	workoutrepoport "github.com/liftlog/liftlog-api/internal/ports/out/workoutrepo"
)

type CleanupFunc = func()

type ExerciseRepoFactory func(t *testing.T) (exerciserepoport.Repository, CleanupFunc)
type WorkoutRepoFactory func(t *testing.T) (workoutrepoport.Repository, CleanupFunc)
type TemplateRepoFactory func(t *testing.T) (templaterepoport.Repository, CleanupFunc)
type CalorieRepoFactory func(t *testing.T) (calorierepoport.Repository, CleanupFunc)
type ProfileRepoFactory func(t *testing.T) (profilerepoport.Repository, CleanupFunc)
type LocationRepoFactory func(t *testing.T) (locationrepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

// uniq returns a short lowercase alphanumeric suffix so suites can share a database.
func uniq() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:      idempotencyport.Key("k-" + uniq()),
		Subject:  domain.SubjectID("sub-1"),
		Method:   "POST",
		Route:    "/workouts",
		BodyHash: "",
	}
	rec := idempotencyport.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte("hash-abc"),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}
	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get before Put: ok=%v err=%v", ok, err)
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != "hash-abc" || got.ContentType != "text/plain" || got.StatusCode != 0 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte("hash-def")
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != "hash-def" {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// Expiry drops old records and keeps fresh ones.
	fresh := fp
	fresh.BodyHash = "fresh"
	if err := store.Put(ctx, fresh, idempotencyport.Record{StatusCode: 201, ContentType: "application/json", Body: []byte(`{}`), CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("Put fresh: %v", err)
	}
	n, err := store.DeleteBefore(ctx, time.Unix(1000, 0).UTC())
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if n < 1 {
		t.Fatalf("DeleteBefore removed %d records, want >= 1", n)
	}
	if _, ok, _ := store.Get(ctx, fp); ok {
		t.Fatalf("expected expired record to be gone")
	}
	if _, ok, _ := store.Get(ctx, fresh); !ok {
		t.Fatalf("expected fresh record to survive")
	}
}

func RunExerciseRepo(t *testing.T, newRepo ExerciseRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	u := uniq()
	now := time.Unix(1000, 0).UTC()
	pushKey := "pushup" + u
	benchKey := "benchpress" + u
	if err := repo.Append(ctx, exerciserepoport.Exercise{Name: "push-ups " + u, Key: pushKey, CreatedAt: now}); err != nil {
		t.Fatalf("Append push: %v", err)
	}
	if err := repo.Append(ctx, exerciserepoport.Exercise{Name: "Bench Press " + u, Key: benchKey, CreatedAt: now}); err != nil {
		t.Fatalf("Append bench: %v", err)
	}

	// Key uniqueness; the first spelling wins.
	err := repo.Append(ctx, exerciserepoport.Exercise{Name: "Push Up " + u, Key: pushKey, CreatedAt: now})
	if !errors.Is(err, exerciserepoport.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	got, err := repo.GetByKey(ctx, pushKey)
	if err != nil {
		t.Fatalf("GetByKey: %v", err)
	}
	if got.Name != "push-ups "+u {
		t.Fatalf("GetByKey name=%q, want first spelling", got.Name)
	}
	if _, err := repo.GetByKey(ctx, "missing"+u); !errors.Is(err, exerciserepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Containment search orders shorter keys first.
	pressKey := "press" + u
	if err := repo.Append(ctx, exerciserepoport.Exercise{Name: "Press " + u, Key: pressKey, CreatedAt: now}); err != nil {
		t.Fatalf("Append press: %v", err)
	}
	found, err := repo.SearchByKey(ctx, "press"+u, 0)
	if err != nil {
		t.Fatalf("SearchByKey: %v", err)
	}
	if len(found) != 2 || found[0].Key != pressKey || found[1].Key != benchKey {
		t.Fatalf("unexpected search result: %#v", found)
	}
	limited, err := repo.SearchByKey(ctx, "press"+u, 1)
	if err != nil {
		t.Fatalf("SearchByKey limit: %v", err)
	}
	if len(limited) != 1 || limited[0].Key != pressKey {
		t.Fatalf("unexpected limited result: %#v", limited)
	}

	// Case-insensitive name ordering.
	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	idx := map[string]int{}
	for i, e := range all {
		idx[e.Key] = i
	}
	for _, k := range []string{pushKey, benchKey, pressKey} {
		if _, ok := idx[k]; !ok {
			t.Fatalf("List missing key %q", k)
		}
	}
	if !(idx[benchKey] < idx[pressKey] && idx[pressKey] < idx[pushKey]) {
		t.Fatalf("unexpected ordering: %#v", all)
	}
}

func RunWorkoutRepo(t *testing.T, newRepo WorkoutRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	owner := domain.SubjectID("sub-" + uniq())
	other := domain.SubjectID("sub-" + uniq())
	base := time.Unix(2000, 0).UTC()

	older := workoutrepoport.Workout{
		ID:    domain.WorkoutID(uuid.NewString()),
		Owner: owner,
		Name:  "Push Day",
		Sets: []workoutrepoport.Set{
			{Number: 2, Exercise: "Bench Press", ExerciseKey: "benchpres", Weight: 105, Reps: 5},
			{Number: 1, Exercise: "Bench Press", ExerciseKey: "benchpres", Weight: 100, Reps: 8},
			{Number: 3, Exercise: "Push-Ups", ExerciseKey: "pushup", Weight: 1, Reps: 20},
		},
		CreatedAt: base,
	}
	newer := workoutrepoport.Workout{
		ID:        domain.WorkoutID(uuid.NewString()),
		Owner:     owner,
		Name:      "Bench Again",
		Sets:      []workoutrepoport.Set{{Number: 1, Exercise: "Bench Press", ExerciseKey: "benchpres", Weight: 110, Reps: 3}},
		CreatedAt: base.Add(24 * time.Hour),
	}
	foreign := workoutrepoport.Workout{
		ID:        domain.WorkoutID(uuid.NewString()),
		Owner:     other,
		Name:      "Not Mine",
		Sets:      []workoutrepoport.Set{{Number: 1, Exercise: "Bench Press", ExerciseKey: "benchpres", Weight: 300, Reps: 1}},
		CreatedAt: base,
	}
	for _, w := range []workoutrepoport.Workout{older, newer, foreign} {
		if err := repo.Create(ctx, w); err != nil {
			t.Fatalf("Create %s: %v", w.Name, err)
		}
	}
	if err := repo.Create(ctx, older); !errors.Is(err, workoutrepoport.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	got, err := repo.GetByID(ctx, older.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Sets) != 3 || got.Sets[0].Number != 1 || got.Sets[2].Number != 3 {
		t.Fatalf("sets not ordered by number: %#v", got.Sets)
	}
	if got.Sets[0].Weight != 100 || got.Sets[0].Reps != 8 {
		t.Fatalf("unexpected first set: %#v", got.Sets[0])
	}

	list, err := repo.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID || list[1].ID != older.ID {
		t.Fatalf("expected newest first: %#v", list)
	}

	lifts, err := repo.ListLiftsByExerciseKey(ctx, owner, "benchpres")
	if err != nil {
		t.Fatalf("ListLiftsByExerciseKey: %v", err)
	}
	if len(lifts) != 3 {
		t.Fatalf("expected 3 bench lifts for owner, got %#v", lifts)
	}
	for _, l := range lifts {
		if l.Weight == 300 {
			t.Fatalf("history leaked another owner's lift: %#v", lifts)
		}
	}

	sets, err := repo.ListSetsByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("ListSetsByOwner: %v", err)
	}
	if len(sets) != 4 {
		t.Fatalf("expected 4 sets, got %d", len(sets))
	}

	if err := repo.Delete(ctx, older.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, older.ID); !errors.Is(err, workoutrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, older.ID); !errors.Is(err, workoutrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	lifts, err = repo.ListLiftsByExerciseKey(ctx, owner, "benchpres")
	if err != nil || len(lifts) != 1 {
		t.Fatalf("expected deleted workout's sets gone, got %#v err=%v", lifts, err)
	}
}

func RunTemplateRepo(t *testing.T, newRepo TemplateRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	owner := domain.SubjectID("sub-" + uniq())
	now := time.Unix(3000, 0).UTC()
	tpl := templaterepoport.Template{
		ID:    domain.TemplateID(uuid.NewString()),
		Owner: owner,
		Name:  "Leg Day",
		Entries: []templaterepoport.Entry{
			{Exercise: "Squat", Weight: 225, Reps: 5},
			{Exercise: "Lunge", Weight: 50, Reps: 10},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, tpl); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, tpl); !errors.Is(err, templaterepoport.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	got, err := repo.GetByID(ctx, tpl.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Entries) != 2 || got.Entries[0].Exercise != "Squat" || got.Entries[1].Reps != 10 {
		t.Fatalf("entries not preserved in order: %#v", got.Entries)
	}

	// Save replaces content but never ownership or creation time.
	upd := got
	upd.Name = "Leg Day 2"
	upd.Entries = upd.Entries[:1]
	upd.Owner = domain.SubjectID("someone-else")
	upd.CreatedAt = now.Add(time.Hour)
	upd.UpdatedAt = now.Add(time.Hour)
	if err := repo.Save(ctx, upd); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = repo.GetByID(ctx, tpl.ID)
	if err != nil {
		t.Fatalf("GetByID after save: %v", err)
	}
	if got.Name != "Leg Day 2" || len(got.Entries) != 1 || got.Owner != owner || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected saved template: %#v", got)
	}

	missing := tpl
	missing.ID = domain.TemplateID(uuid.NewString())
	if err := repo.Save(ctx, missing); !errors.Is(err, templaterepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on Save, got %v", err)
	}

	second := tpl
	second.ID = domain.TemplateID(uuid.NewString())
	second.Name = "Pull Day"
	second.CreatedAt = now.Add(2 * time.Hour)
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create second: %v", err)
	}
	list, err := repo.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID {
		t.Fatalf("expected newest first: %#v", list)
	}

	if err := repo.Delete(ctx, tpl.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, tpl.ID); !errors.Is(err, templaterepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func RunCalorieRepo(t *testing.T, newRepo CalorieRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	owner := domain.SubjectID("sub-" + uniq())
	day1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	mk := func(food string, cal int, day time.Time, created int64) calorierepoport.Entry {
		return calorierepoport.Entry{
			ID:        domain.CalorieEntryID(uuid.NewString()),
			Owner:     owner,
			FoodName:  food,
			Calories:  cal,
			Date:      day,
			CreatedAt: time.Unix(created, 0).UTC(),
		}
	}
	oats := mk("Oats", 300, day1, 10)
	apple := mk("Apple", 95, day1, 20)
	rice := mk("Rice", 200, day2, 5)
	for _, e := range []calorierepoport.Entry{apple, rice, oats} {
		if err := repo.Add(ctx, e); err != nil {
			t.Fatalf("Add %s: %v", e.FoodName, err)
		}
	}
	if err := repo.Add(ctx, oats); !errors.Is(err, calorierepoport.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	all, err := repo.ListByOwner(ctx, owner, calorierepoport.Range{})
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(all) != 3 || all[0].ID != rice.ID || all[1].ID != oats.ID || all[2].ID != apple.ID {
		t.Fatalf("unexpected ordering: %#v", all)
	}
	if !all[1].Date.Equal(day1) {
		t.Fatalf("date not preserved: %v", all[1].Date)
	}

	oneDay, err := repo.ListByOwner(ctx, owner, calorierepoport.Range{From: &day1, To: &day1})
	if err != nil {
		t.Fatalf("ListByOwner range: %v", err)
	}
	if len(oneDay) != 2 {
		t.Fatalf("expected 2 entries on day1, got %#v", oneDay)
	}

	got, err := repo.GetByID(ctx, apple.ID)
	if err != nil || got.Calories != 95 || got.Owner != owner {
		t.Fatalf("GetByID: %#v err=%v", got, err)
	}
	if err := repo.Delete(ctx, apple.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, apple.ID); !errors.Is(err, calorierepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, apple.ID); !errors.Is(err, calorierepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func RunProfileRepo(t *testing.T, newRepo ProfileRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	sub := domain.SubjectID("sub-" + uniq())
	if _, err := repo.Get(ctx, sub); !errors.Is(err, profilerepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	created := time.Unix(4000, 0).UTC()
	if err := repo.Upsert(ctx, profilerepoport.Profile{Subject: sub, DisplayName: "Sam", CreatedAt: created, UpdatedAt: created}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := repo.Get(ctx, sub)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.DisplayName != "Sam" || got.CalorieGoal != nil {
		t.Fatalf("unexpected profile: %#v", got)
	}

	goal := 2200
	later := created.Add(time.Hour)
	if err := repo.Upsert(ctx, profilerepoport.Profile{Subject: sub, DisplayName: "Sam L", CalorieGoal: &goal, CreatedAt: later, UpdatedAt: later}); err != nil {
		t.Fatalf("Upsert update: %v", err)
	}
	got, err = repo.Get(ctx, sub)
	if err != nil {
		t.Fatalf("Get after update: %v", err)
	}
	if got.DisplayName != "Sam L" || got.CalorieGoal == nil || *got.CalorieGoal != 2200 {
		t.Fatalf("unexpected updated profile: %#v", got)
	}
	if !got.CreatedAt.Equal(created) || !got.UpdatedAt.Equal(later) {
		t.Fatalf("timestamps: created=%v updated=%v", got.CreatedAt, got.UpdatedAt)
	}

	// Clearing the goal.
	if err := repo.Upsert(ctx, profilerepoport.Profile{Subject: sub, DisplayName: "Sam L", CreatedAt: later, UpdatedAt: later}); err != nil {
		t.Fatalf("Upsert clear: %v", err)
	}
	got, _ = repo.Get(ctx, sub)
	if got.CalorieGoal != nil {
		t.Fatalf("expected cleared goal, got %v", *got.CalorieGoal)
	}
}

func RunLocationRepo(t *testing.T, newRepo LocationRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	u := uniq()
	squatKey := "squat" + u
	deadKey := "deadlift" + u
	mk := func(exercise, key, city string, weight float64, created int64) locationrepoport.Record {
		return locationrepoport.Record{
			ID:          domain.LocationRecordID(uuid.NewString()),
			Owner:       domain.SubjectID("sub-" + u),
			LifterName:  "Pat",
			City:        city,
			Latitude:    37.8,
			Longitude:   -122.27,
			Exercise:    exercise,
			ExerciseKey: key,
			Weight:      weight,
			Reps:        1,
			CreatedAt:   time.Unix(created, 0).UTC(),
		}
	}
	light := mk("Squat "+u, squatKey, "Oakland", 200, 10)
	heavy := mk("Squat "+u, squatKey, "Oakland", 300, 20)
	tieLater := mk("Squat "+u, squatKey, "Berkeley", 300, 30)
	dead := mk("Deadlift "+u, deadKey, "Oakland", 400, 40)
	for _, r := range []locationrepoport.Record{tieLater, light, dead, heavy} {
		if err := repo.Add(ctx, r); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if err := repo.Add(ctx, light); !errors.Is(err, locationrepoport.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	squats, err := repo.List(ctx, squatKey)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(squats) != 3 || squats[0].ID != heavy.ID || squats[1].ID != tieLater.ID || squats[2].ID != light.ID {
		t.Fatalf("unexpected ordering: %#v", squats)
	}
	if squats[0].Latitude != 37.8 || squats[0].Longitude != -122.27 {
		t.Fatalf("coordinates not preserved: %#v", squats[0])
	}

	all, err := repo.List(ctx, "")
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	var mine int
	for _, r := range all {
		if r.ExerciseKey == squatKey || r.ExerciseKey == deadKey {
			mine++
		}
	}
	if mine != 4 {
		t.Fatalf("expected 4 records across exercises, got %d", mine)
	}

	names, err := repo.ListExercises(ctx)
	if err != nil {
		t.Fatalf("ListExercises: %v", err)
	}
	var di, si = -1, -1
	for i, n := range names {
		switch n {
		case "Deadlift " + u:
			di = i
		case "Squat " + u:
			if si != -1 {
				t.Fatalf("duplicate exercise name %q", n)
			}
			si = i
		}
	}
	if di == -1 || si == -1 || di > si {
		t.Fatalf("unexpected exercise names: %#v", names)
	}
}
