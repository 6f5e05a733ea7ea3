package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	memcalorierepo "github.com/liftlog/liftlog-api/internal/adapters/memory/calorierepo"
	memclock "github.com/liftlog/liftlog-api/internal/adapters/memory/clock"
	memexerciserepo "github.com/liftlog/liftlog-api/internal/adapters/memory/exerciserepo"
	memidempotency "github.com/liftlog/liftlog-api/internal/adapters/memory/idempotency"
	memlocationrepo "github.com/liftlog/liftlog-api/internal/adapters/memory/locationrepo"
	memprofilerepo "github.com/liftlog/liftlog-api/internal/adapters/memory/profilerepo"
	memtemplaterepo "github.com/liftlog/liftlog-api/internal/adapters/memory/templaterepo"
	memworkoutrepo "github.com/liftlog/liftlog-api/internal/adapters/memory/workoutrepo"
	"github.com/liftlog/liftlog-api/internal/app/calories"
	"github.com/liftlog/liftlog-api/internal/app/exercises"
	"github.com/liftlog/liftlog-api/internal/app/locations"
	"github.com/liftlog/liftlog-api/internal/app/profiles"
	"github.com/liftlog/liftlog-api/internal/app/records"
	"github.com/liftlog/liftlog-api/internal/app/templates"
	"github.com/liftlog/liftlog-api/internal/app/workouts"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	clk := memclock.NewManualClock(testNow)
	workoutRepo := memworkoutrepo.NewRepo()

	exerciseSvc := exercises.NewService(memexerciserepo.NewRepo(), clk, nil)
	recordSvc := records.NewService(workoutRepo, nil)
	profileSvc := profiles.NewService(memprofilerepo.NewRepo(), clk)

	api := NewServer(Services{
		Exercises: exerciseSvc,
		Records:   recordSvc,
		Workouts:  workouts.NewService(workoutRepo, exerciseSvc, recordSvc, clk),
		Templates: templates.NewService(memtemplaterepo.NewRepo(), exerciseSvc, clk),
		Profiles:  profileSvc,
		Calories:  calories.NewService(memcalorierepo.NewRepo(), profileSvc, clk),
		Locations: locations.NewService(memlocationrepo.NewRepo(), exerciseSvc, profileSvc, clk),
	}, memidempotency.NewStore(), nil)
	api.Clock = clk
	return api
}

// newTestRouter serves the API with dev auth so requests pick their subject per call.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouterWithOptions(newTestServer(t), RouterOptions{AuthMiddleware: NewDevAuthMiddleware("")})
}

func call(t *testing.T, h http.Handler, method, path, sub, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if sub != "" {
		req.Header.Set("X-Debug-Subject", sub)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %T: %v body=%s", out, err, rec.Body.String())
	}
	return out
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status: got %d want %d body=%s", rec.Code, status, rec.Body.String())
	}
}

func wantErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) ErrorResponse {
	t.Helper()
	wantStatus(t, rec, status)
	er := decode[ErrorResponse](t, rec)
	if er.Error.Code != code {
		t.Fatalf("code: got %q want %q", er.Error.Code, code)
	}
	return er
}

func TestExercises_ResolveSharesFirstSpelling(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	rec := call(t, h, http.MethodPost, "/exercises/resolve", "lifter-1", `{"name":"  Push-Ups "}`)
	wantStatus(t, rec, http.StatusOK)
	first := decode[ResolveExerciseResponse](t, rec)
	if first.Exercise.Name != "Push-Ups" || first.Exercise.Key != "pushup" || !first.Created || first.Degraded {
		t.Fatalf("first=%+v", first)
	}

	rec = call(t, h, http.MethodPost, "/exercises/resolve", "lifter-2", `{"name":"push up"}`)
	wantStatus(t, rec, http.StatusOK)
	second := decode[ResolveExerciseResponse](t, rec)
	if second.Exercise.Name != "Push-Ups" || second.Created {
		t.Fatalf("second=%+v", second)
	}

	rec = call(t, h, http.MethodGet, "/exercises", "lifter-1", "")
	wantStatus(t, rec, http.StatusOK)
	list := decode[ListExercisesResponse](t, rec)
	if len(list.Exercises) != 1 || list.Exercises[0].Name != "Push-Ups" {
		t.Fatalf("list=%+v", list)
	}
}

func TestExercises_ResolveRejectsBlankName(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)
	wantErrorCode(t, call(t, h, http.MethodPost, "/exercises/resolve", "lifter-1", `{"name":"  - "}`), http.StatusUnprocessableEntity, "VALIDATION_ERROR")
	wantErrorCode(t, call(t, h, http.MethodPost, "/exercises/resolve", "lifter-1", ""), http.StatusUnprocessableEntity, "VALIDATION_ERROR")
}

func TestExercises_CommonCategories(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)
	rec := call(t, h, http.MethodGet, "/exercises/common", "lifter-1", "")
	wantStatus(t, rec, http.StatusOK)
	got := decode[ListCommonExercisesResponse](t, rec)
	if len(got.Categories) != 6 || got.Categories[5].Name != "Core" || len(got.Categories[0].Exercises) != 5 {
		t.Fatalf("categories=%+v", got.Categories)
	}
}

func TestSets_CheckCountsPendingSets(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	rec := call(t, h, http.MethodPost, "/sets/check", "lifter-1", `{"exercise":"Bench Press","weight":100,"reps":5}`)
	wantStatus(t, rec, http.StatusOK)
	if got := decode[CheckSetResponse](t, rec); got.PR != "WEIGHT" || got.Exercise.Name != "Bench Press" {
		t.Fatalf("first=%+v", got)
	}

	rec = call(t, h, http.MethodPost, "/sets/check", "lifter-1",
		`{"exercise":"bench press","weight":100,"reps":6,"pendingSets":[{"exercise":"Bench Press","weight":100,"reps":5}]}`)
	wantStatus(t, rec, http.StatusOK)
	if got := decode[CheckSetResponse](t, rec); got.PR != "REPS" || got.Exercise.Name != "Bench Press" {
		t.Fatalf("reps=%+v", got)
	}

	rec = call(t, h, http.MethodPost, "/sets/check", "lifter-1",
		`{"exercise":"Bench Press","weight":90,"reps":10,"pendingSets":[{"exercise":"Bench Press","weight":100,"reps":5}]}`)
	wantStatus(t, rec, http.StatusOK)
	if got := decode[CheckSetResponse](t, rec); got.PR != "NONE" {
		t.Fatalf("none=%+v", got)
	}
}

func TestSets_CheckValidatesLift(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)
	er := wantErrorCode(t, call(t, h, http.MethodPost, "/sets/check", "lifter-1", `{"exercise":"Squat","weight":0,"reps":0}`), http.StatusUnprocessableEntity, "VALIDATION_ERROR")
	details, err := er.Error.Details.Get()
	if err != nil || details["weight"] == nil || details["reps"] == nil {
		t.Fatalf("details=%v err=%v", details, err)
	}
}

const benchAndSquat = `{"name":"  Push   Day ","sets":[
	{"exercise":"Bench Press","weight":100,"reps":5},
	{"exercise":"bench press","weight":105,"reps":3},
	{"exercise":"Squat","weight":140,"reps":5}]}`

func TestWorkouts_CompleteListGetDelete(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	rec := call(t, h, http.MethodPost, "/workouts", "lifter-1", benchAndSquat)
	wantStatus(t, rec, http.StatusCreated)
	created := decode[WorkoutResponse](t, rec).Workout
	if created.Name != "Push Day" || len(created.Sets) != 3 {
		t.Fatalf("created=%+v", created)
	}
	for i, s := range created.Sets {
		if s.Number != i+1 || s.PR != "WEIGHT" {
			t.Fatalf("set %d=%+v", i, s)
		}
	}
	if created.Sets[1].Exercise != "Bench Press" {
		t.Fatalf("set 2 exercise=%q", created.Sets[1].Exercise)
	}
	if created.Stats != (WorkoutStats{TotalVolume: 1515, UniqueExercises: 2, TotalSets: 3}) {
		t.Fatalf("stats=%+v", created.Stats)
	}

	rec = call(t, h, http.MethodPost, "/workouts", "lifter-1", `{"name":"Bench again","sets":[{"exercise":"Bench Press","weight":100,"reps":6}]}`)
	wantStatus(t, rec, http.StatusCreated)
	if got := decode[WorkoutResponse](t, rec).Workout.Sets[0].PR; got != "REPS" {
		t.Fatalf("second workout pr=%q", got)
	}

	rec = call(t, h, http.MethodGet, "/workouts", "lifter-1", "")
	wantStatus(t, rec, http.StatusOK)
	list := decode[ListWorkoutsResponse](t, rec).Workouts
	if len(list) != 2 {
		t.Fatalf("list=%+v", list)
	}
	if list[0].Sets[0].PR != "" {
		t.Fatalf("feed entries carry no PR flags: %+v", list[0].Sets[0])
	}

	rec = call(t, h, http.MethodGet, "/workouts/"+created.ID, "lifter-1", "")
	wantStatus(t, rec, http.StatusOK)
	if got := decode[WorkoutResponse](t, rec).Workout; got.ID != created.ID || got.Stats.TotalSets != 3 {
		t.Fatalf("get=%+v", got)
	}

	wantErrorCode(t, call(t, h, http.MethodGet, "/workouts/"+created.ID, "lifter-2", ""), http.StatusNotFound, "WORKOUT_NOT_FOUND")
	wantErrorCode(t, call(t, h, http.MethodDelete, "/workouts/"+created.ID, "lifter-2", ""), http.StatusNotFound, "WORKOUT_NOT_FOUND")

	wantStatus(t, call(t, h, http.MethodDelete, "/workouts/"+created.ID, "lifter-1", ""), http.StatusNoContent)
	wantErrorCode(t, call(t, h, http.MethodGet, "/workouts/"+created.ID, "lifter-1", ""), http.StatusNotFound, "WORKOUT_NOT_FOUND")
}

func TestWorkouts_Validation(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)
	er := wantErrorCode(t, call(t, h, http.MethodPost, "/workouts", "lifter-1", `{"name":"Empty","sets":[]}`), http.StatusUnprocessableEntity, "VALIDATION_ERROR")
	if d, _ := er.Error.Details.Get(); d["sets"] == nil {
		t.Fatalf("details=%v", d)
	}
	wantErrorCode(t, call(t, h, http.MethodPost, "/workouts", "lifter-1", `{"name":"Bad","sets":[{"exercise":"  ","weight":1,"reps":1}]}`), http.StatusUnprocessableEntity, "VALIDATION_ERROR")
}

func TestWorkouts_IdempotencyKeyReplaysAndRejectsReuse(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	first := call(t, h, http.MethodPost, "/workouts", "lifter-1", benchAndSquat, "Idempotency-Key", "k-1")
	wantStatus(t, first, http.StatusCreated)
	firstID := decode[WorkoutResponse](t, first).Workout.ID

	// Whitespace differences in normalized fields still replay.
	retry := call(t, h, http.MethodPost, "/workouts", "lifter-1",
		`{"name":"Push Day","sets":[{"exercise":" Bench Press","weight":100,"reps":5},{"exercise":"bench press","weight":105,"reps":3},{"exercise":"Squat ","weight":140,"reps":5}]}`,
		"Idempotency-Key", "k-1")
	wantStatus(t, retry, http.StatusCreated)
	if retry.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected replay header")
	}
	if got := decode[WorkoutResponse](t, retry).Workout; got.ID != firstID || got.Sets[0].PR != "WEIGHT" {
		t.Fatalf("replay=%+v", got)
	}

	rec := call(t, h, http.MethodGet, "/workouts", "lifter-1", "")
	if n := len(decode[ListWorkoutsResponse](t, rec).Workouts); n != 1 {
		t.Fatalf("workouts=%d, want 1", n)
	}

	wantErrorCode(t,
		call(t, h, http.MethodPost, "/workouts", "lifter-1", `{"name":"Other","sets":[{"exercise":"Squat","weight":1,"reps":1}]}`, "Idempotency-Key", "k-1"),
		http.StatusConflict, "IDEMPOTENCY_KEY_REUSE")

	// Keys are scoped per subject.
	wantStatus(t, call(t, h, http.MethodPost, "/workouts", "lifter-2", `{"name":"Other","sets":[{"exercise":"Squat","weight":1,"reps":1}]}`, "Idempotency-Key", "k-1"), http.StatusCreated)
}

func TestRecords_PersonalBestsAndHistory(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)
	wantStatus(t, call(t, h, http.MethodPost, "/workouts", "lifter-1", benchAndSquat), http.StatusCreated)
	wantStatus(t, call(t, h, http.MethodPost, "/workouts", "lifter-1", `{"name":"B","sets":[{"exercise":"Bench Press","weight":105,"reps":4}]}`), http.StatusCreated)

	rec := call(t, h, http.MethodGet, "/records", "lifter-1", "")
	wantStatus(t, rec, http.StatusOK)
	pbs := decode[ListPersonalBestsResponse](t, rec).Records
	want := []PersonalBest{{Exercise: "Bench Press", Weight: 105, Reps: 4}, {Exercise: "Squat", Weight: 140, Reps: 5}}
	if len(pbs) != len(want) || pbs[0] != want[0] || pbs[1] != want[1] {
		t.Fatalf("pbs=%+v", pbs)
	}

	rec = call(t, h, http.MethodGet, "/records/history?exercise=bench-press", "lifter-1", "")
	wantStatus(t, rec, http.StatusOK)
	if got := decode[LiftHistoryResponse](t, rec); len(got.Lifts) != 3 {
		t.Fatalf("history=%+v", got)
	}
	wantErrorCode(t, call(t, h, http.MethodGet, "/records/history", "lifter-1", ""), http.StatusUnprocessableEntity, "VALIDATION_ERROR")

	rec = call(t, h, http.MethodGet, "/records", "lifter-2", "")
	if got := decode[ListPersonalBestsResponse](t, rec).Records; len(got) != 0 {
		t.Fatalf("other lifter pbs=%+v", got)
	}
}

func TestTemplates_CRUDAndPatchSemantics(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)
	wantStatus(t, call(t, h, http.MethodPost, "/exercises/resolve", "lifter-1", `{"name":"Squats"}`), http.StatusOK)

	rec := call(t, h, http.MethodPost, "/templates", "lifter-1",
		`{"name":"Leg Day","exercises":[{"exercise":"squat","weight":100,"reps":5},{"exercise":"Lunges","weight":20,"reps":10}]}`)
	wantStatus(t, rec, http.StatusCreated)
	tpl := decode[TemplateResponse](t, rec).Template
	if len(tpl.Exercises) != 2 || tpl.Exercises[0].Exercise != "Squats" {
		t.Fatalf("created=%+v", tpl)
	}

	rec = call(t, h, http.MethodPatch, "/templates/"+tpl.ID, "lifter-1", `{"name":"Legs"}`)
	wantStatus(t, rec, http.StatusOK)
	if got := decode[TemplateResponse](t, rec).Template; got.Name != "Legs" || len(got.Exercises) != 2 {
		t.Fatalf("renamed=%+v", got)
	}

	wantErrorCode(t, call(t, h, http.MethodPatch, "/templates/"+tpl.ID, "lifter-1", `{"name":null}`), http.StatusUnprocessableEntity, "VALIDATION_ERROR")

	rec = call(t, h, http.MethodPatch, "/templates/"+tpl.ID, "lifter-1", `{"exercises":null}`)
	wantStatus(t, rec, http.StatusOK)
	if got := decode[TemplateResponse](t, rec).Template; got.Name != "Legs" || len(got.Exercises) != 0 {
		t.Fatalf("cleared=%+v", got)
	}

	wantErrorCode(t, call(t, h, http.MethodGet, "/templates/"+tpl.ID, "lifter-2", ""), http.StatusNotFound, "TEMPLATE_NOT_FOUND")

	rec = call(t, h, http.MethodGet, "/templates", "lifter-1", "")
	if got := decode[ListTemplatesResponse](t, rec).Templates; len(got) != 1 {
		t.Fatalf("list=%+v", got)
	}

	wantStatus(t, call(t, h, http.MethodDelete, "/templates/"+tpl.ID, "lifter-1", ""), http.StatusNoContent)
	wantErrorCode(t, call(t, h, http.MethodGet, "/templates/"+tpl.ID, "lifter-1", ""), http.StatusNotFound, "TEMPLATE_NOT_FOUND")
}

func TestProfile_PatchCalorieGoalTriState(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	rec := call(t, h, http.MethodGet, "/profile", "lifter-1", "")
	wantStatus(t, rec, http.StatusOK)
	p := decode[ProfileResponse](t, rec).Profile
	if p.DisplayName != "" || !p.CalorieGoal.IsNull() {
		t.Fatalf("empty profile=%+v", p)
	}

	rec = call(t, h, http.MethodPatch, "/profile", "lifter-1", `{"displayName":"  Sam  Lee ","calorieGoal":2500}`)
	wantStatus(t, rec, http.StatusOK)
	p = decode[ProfileResponse](t, rec).Profile
	if goal, err := p.CalorieGoal.Get(); err != nil || goal != 2500 || p.DisplayName != "Sam Lee" {
		t.Fatalf("patched=%+v", p)
	}

	// Omitted fields are left alone.
	rec = call(t, h, http.MethodPatch, "/profile", "lifter-1", `{}`)
	if goal, _ := decode[ProfileResponse](t, rec).Profile.CalorieGoal.Get(); goal != 2500 {
		t.Fatalf("goal changed by empty patch")
	}

	rec = call(t, h, http.MethodPatch, "/profile", "lifter-1", `{"calorieGoal":null}`)
	wantStatus(t, rec, http.StatusOK)
	if p := decode[ProfileResponse](t, rec).Profile; !p.CalorieGoal.IsNull() || p.DisplayName != "Sam Lee" {
		t.Fatalf("cleared=%+v", p)
	}

	wantErrorCode(t, call(t, h, http.MethodPut, "/profile", "lifter-1", `{"displayName":"   "}`), http.StatusUnprocessableEntity, "VALIDATION_ERROR")
}

func TestCalories_DayAndHistory(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	rec := call(t, h, http.MethodPut, "/calories/goal", "lifter-1", `{"calorieGoal":2000}`)
	wantStatus(t, rec, http.StatusOK)
	if got := decode[CalorieGoalResponse](t, rec); got.CalorieGoal != 2000 {
		t.Fatalf("goal=%+v", got)
	}

	rec = call(t, h, http.MethodPost, "/calories/entries", "lifter-1", `{"foodName":"Oats","calories":300}`)
	wantStatus(t, rec, http.StatusCreated)
	oats := decode[CalorieEntryResponse](t, rec).Entry
	if oats.Date.String() != "2024-03-10" {
		t.Fatalf("default date=%s", oats.Date)
	}
	wantStatus(t, call(t, h, http.MethodPost, "/calories/entries", "lifter-1", `{"foodName":"Rice","calories":500,"date":"2024-03-09"}`), http.StatusCreated)

	rec = call(t, h, http.MethodGet, "/calories/day", "lifter-1", "")
	wantStatus(t, rec, http.StatusOK)
	day := decode[CalorieDayResponse](t, rec)
	if remaining, err := day.Remaining.Get(); err != nil || day.Total != 300 || remaining != 1700 {
		t.Fatalf("today=%+v", day)
	}

	rec = call(t, h, http.MethodGet, "/calories/day?date=2024-03-09", "lifter-1", "")
	if day := decode[CalorieDayResponse](t, rec); day.Total != 500 || len(day.Entries) != 1 {
		t.Fatalf("yesterday=%+v", day)
	}
	wantErrorCode(t, call(t, h, http.MethodGet, "/calories/day?date=03/09/2024", "lifter-1", ""), http.StatusUnprocessableEntity, "VALIDATION_ERROR")

	rec = call(t, h, http.MethodGet, "/calories/history", "lifter-1", "")
	wantStatus(t, rec, http.StatusOK)
	days := decode[CalorieHistoryResponse](t, rec).Days
	if len(days) != 2 || days[0].Date.String() != "2024-03-10" || days[1].Total != 500 {
		t.Fatalf("history=%+v", days)
	}

	wantErrorCode(t, call(t, h, http.MethodDelete, "/calories/entries/"+oats.ID, "lifter-2", ""), http.StatusNotFound, "CALORIE_ENTRY_NOT_FOUND")
	wantStatus(t, call(t, h, http.MethodDelete, "/calories/entries/"+oats.ID, "lifter-1", ""), http.StatusNoContent)
}

func TestLocationRecords_BestPerCityAndExercise(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)
	wantStatus(t, call(t, h, http.MethodPut, "/profile", "lifter-1", `{"displayName":"Sam"}`), http.StatusOK)

	pins := []string{
		`{"city":"Oakland","latitude":37.80,"longitude":-122.27,"exercise":"Bench Press","weight":100,"reps":5}`,
		`{"city":"Oakland","latitude":37.80,"longitude":-122.27,"exercise":"bench press","weight":120,"reps":3}`,
		`{"city":"Berkeley","latitude":37.87,"longitude":-122.27,"exercise":"Squat","weight":150,"reps":5}`,
	}
	for _, p := range pins {
		wantStatus(t, call(t, h, http.MethodPost, "/location-records", "lifter-1", p), http.StatusCreated)
	}
	// Anonymous lifter without a profile.
	rec := call(t, h, http.MethodPost, "/location-records", "lifter-2", `{"city":"Tokyo","latitude":35.68,"longitude":139.69,"exercise":"Squat","weight":90,"reps":8}`)
	wantStatus(t, rec, http.StatusCreated)
	if got := decode[LocationRecordResponse](t, rec).Record.LifterName; got != "Anonymous" {
		t.Fatalf("lifterName=%q", got)
	}

	rec = call(t, h, http.MethodGet, "/location-records?minLat=37&maxLat=38&minLng=-123&maxLng=-122", "lifter-1", "")
	wantStatus(t, rec, http.StatusOK)
	recs := decode[ListLocationRecordsResponse](t, rec).Records
	if len(recs) != 2 {
		t.Fatalf("records=%+v", recs)
	}
	for _, r := range recs {
		if r.City == "Oakland" && (r.Weight != 120 || r.LifterName != "Sam") {
			t.Fatalf("oakland=%+v", r)
		}
	}

	rec = call(t, h, http.MethodGet, "/location-records?exercise=squats", "lifter-1", "")
	if recs := decode[ListLocationRecordsResponse](t, rec).Records; len(recs) != 2 {
		t.Fatalf("squat records=%+v", recs)
	}

	// A viewport across the antimeridian takes in both Tokyo and the Bay Area.
	rec = call(t, h, http.MethodGet, "/location-records?minLat=30&maxLat=40&minLng=130&maxLng=-120", "lifter-1", "")
	wantStatus(t, rec, http.StatusOK)
	if recs := decode[ListLocationRecordsResponse](t, rec).Records; len(recs) != 3 {
		t.Fatalf("wrapped records=%+v", recs)
	}

	wantErrorCode(t, call(t, h, http.MethodGet, "/location-records?minLat=37", "lifter-1", ""), http.StatusUnprocessableEntity, "VALIDATION_ERROR")
	wantErrorCode(t, call(t, h, http.MethodGet, "/location-records?minLat=38&maxLat=37&minLng=1&maxLng=2", "lifter-1", ""), http.StatusUnprocessableEntity, "VALIDATION_ERROR")
	wantErrorCode(t, call(t, h, http.MethodGet, "/location-records?minLat=1&maxLat=2&minLng=170&maxLng=190", "lifter-1", ""), http.StatusUnprocessableEntity, "VALIDATION_ERROR")
	wantErrorCode(t, call(t, h, http.MethodGet, "/location-records?minLat=x&maxLat=1&minLng=1&maxLng=2", "lifter-1", ""), http.StatusUnprocessableEntity, "VALIDATION_ERROR")
	wantErrorCode(t, call(t, h, http.MethodPost, "/location-records", "lifter-1", `{"city":"Nowhere","latitude":95,"longitude":0,"exercise":"Squat","weight":1,"reps":1}`), http.StatusUnprocessableEntity, "VALIDATION_ERROR")

	rec = call(t, h, http.MethodGet, "/location-records/exercises", "lifter-1", "")
	wantStatus(t, rec, http.StatusOK)
	names := decode[ListNamesResponse](t, rec).Exercises
	if len(names) != 2 || names[0] != "Bench Press" || names[1] != "Squat" {
		t.Fatalf("names=%v", names)
	}
}

func TestUnknownError_Is500Internal(t *testing.T) {
	t.Parallel()

	api := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	api.writeServiceError(rec, req, errors.New("boom"))
	wantErrorCode(t, rec, http.StatusInternalServerError, "INTERNAL")
}
