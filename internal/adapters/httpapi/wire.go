package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/liftlog/liftlog-api/internal/app/calories"
	"github.com/liftlog/liftlog-api/internal/app/workouts"
	"github.com/liftlog/liftlog-api/internal/domain"
)

// Exercises

type Exercise struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

type ListExercisesResponse struct {
	Exercises []Exercise `json:"exercises"`
}

// ExerciseCategory is one muscle group of the built-in picker list.
type ExerciseCategory struct {
	Name      string   `json:"name"`
	Exercises []string `json:"exercises"`
}

type ListCommonExercisesResponse struct {
	Categories []ExerciseCategory `json:"categories"`
}

type ResolveExerciseRequest struct {
	Name string `json:"name"`
}

type ResolveExerciseResponse struct {
	Exercise Exercise `json:"exercise"`
	Created  bool     `json:"created"`
	Degraded bool     `json:"degraded"`
}

type LiftEntry struct {
	Exercise string  `json:"exercise"`
	Weight   float64 `json:"weight"`
	Reps     int     `json:"reps"`
}

type CheckSetRequest struct {
	Exercise    string      `json:"exercise"`
	Weight      float64     `json:"weight"`
	Reps        int         `json:"reps"`
	PendingSets []LiftEntry `json:"pendingSets,omitempty"`
}

type CheckSetResponse struct {
	Exercise Exercise `json:"exercise"`
	Created  bool     `json:"created"`
	Degraded bool     `json:"degraded"`
	PR       string   `json:"pr"`
}

// Workouts

type CompleteWorkoutRequest struct {
	Name string      `json:"name"`
	Sets []LiftEntry `json:"sets"`
}

type WorkoutSet struct {
	Number   int     `json:"number"`
	Exercise string  `json:"exercise"`
	Weight   float64 `json:"weight"`
	Reps     int     `json:"reps"`
	PR       string  `json:"pr,omitempty"`
}

type WorkoutStats struct {
	TotalVolume     float64 `json:"totalVolume"`
	UniqueExercises int     `json:"uniqueExercises"`
	TotalSets       int     `json:"totalSets"`
}

type Workout struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	CreatedAt time.Time    `json:"createdAt"`
	Sets      []WorkoutSet `json:"sets"`
	Stats     WorkoutStats `json:"stats"`
}

type WorkoutResponse struct {
	Workout Workout `json:"workout"`
}

type ListWorkoutsResponse struct {
	Workouts []Workout `json:"workouts"`
}

type PersonalBest struct {
	Exercise string  `json:"exercise"`
	Weight   float64 `json:"weight"`
	Reps     int     `json:"reps"`
}

type ListPersonalBestsResponse struct {
	Records []PersonalBest `json:"records"`
}

type Lift struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

type LiftHistoryResponse struct {
	Exercise string `json:"exercise"`
	Lifts    []Lift `json:"lifts"`
}

// Templates

type CreateTemplateRequest struct {
	Name      string      `json:"name"`
	Exercises []LiftEntry `json:"exercises"`
}

type UpdateTemplateRequest struct {
	Name      nullable.Nullable[string]      `json:"name,omitempty"`
	Exercises nullable.Nullable[[]LiftEntry] `json:"exercises,omitempty"`
}

type Template struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Exercises []LiftEntry `json:"exercises"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type TemplateResponse struct {
	Template Template `json:"template"`
}

type ListTemplatesResponse struct {
	Templates []Template `json:"templates"`
}

// Profiles

type Profile struct {
	DisplayName string                 `json:"displayName"`
	CalorieGoal nullable.Nullable[int] `json:"calorieGoal"`
}

type ProfileResponse struct {
	Profile Profile `json:"profile"`
}

type PutProfileRequest struct {
	DisplayName string `json:"displayName"`
}

type PatchProfileRequest struct {
	DisplayName nullable.Nullable[string] `json:"displayName,omitempty"`
	CalorieGoal nullable.Nullable[int]    `json:"calorieGoal,omitempty"`
}

// Calories

type CalorieGoalRequest struct {
	CalorieGoal int `json:"calorieGoal"`
}

type CalorieGoalResponse struct {
	CalorieGoal int `json:"calorieGoal"`
}

type AddCalorieEntryRequest struct {
	FoodName string              `json:"foodName"`
	Calories int                 `json:"calories"`
	Date     *openapi_types.Date `json:"date,omitempty"`
}

type CalorieEntry struct {
	ID        string             `json:"id"`
	FoodName  string             `json:"foodName"`
	Calories  int                `json:"calories"`
	Date      openapi_types.Date `json:"date"`
	CreatedAt time.Time          `json:"createdAt"`
}

type CalorieEntryResponse struct {
	Entry CalorieEntry `json:"entry"`
}

type CalorieDayResponse struct {
	Date      openapi_types.Date     `json:"date"`
	Entries   []CalorieEntry         `json:"entries"`
	Total     int                    `json:"total"`
	Goal      nullable.Nullable[int] `json:"goal"`
	Remaining nullable.Nullable[int] `json:"remaining"`
}

type CalorieHistoryDay struct {
	Date    openapi_types.Date `json:"date"`
	Entries []CalorieEntry     `json:"entries"`
	Total   int                `json:"total"`
}

type CalorieHistoryResponse struct {
	Days []CalorieHistoryDay `json:"days"`
}

// Location records

type RecordLocationLiftRequest struct {
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Exercise  string  `json:"exercise"`
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
}

type LocationRecord struct {
	ID         string    `json:"id"`
	LifterName string    `json:"lifterName"`
	City       string    `json:"city"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Exercise   string    `json:"exercise"`
	Weight     float64   `json:"weight"`
	Reps       int       `json:"reps"`
	CreatedAt  time.Time `json:"createdAt"`
}

type LocationRecordResponse struct {
	Record LocationRecord `json:"record"`
}

type ListLocationRecordsResponse struct {
	Records []LocationRecord `json:"records"`
}

type ListNamesResponse struct {
	Exercises []string `json:"exercises"`
}

// Conversions

func exerciseFromDomain(e domain.CanonicalExercise) Exercise {
	return Exercise{Name: e.Name, Key: e.Key}
}

func workoutFromDomain(w domain.Workout, st domain.WorkoutStats, prs []domain.PRKind) Workout {
	out := Workout{
		ID:        string(w.ID),
		Name:      w.Name,
		CreatedAt: w.Created,
		Sets:      make([]WorkoutSet, 0, len(w.Sets)),
		Stats: WorkoutStats{
			TotalVolume:     st.TotalVolume,
			UniqueExercises: st.UniqueExercises,
			TotalSets:       st.TotalSets,
		},
	}
	for i, s := range w.Sets {
		ws := WorkoutSet{Number: s.Number, Exercise: s.Exercise, Weight: s.Weight, Reps: s.Reps}
		if i < len(prs) {
			ws.PR = string(prs[i])
		}
		out.Sets = append(out.Sets, ws)
	}
	return out
}

func activityFromApp(a workouts.Activity) Workout {
	return workoutFromDomain(a.Workout, a.Stats, nil)
}

func templateFromDomain(t domain.Template) Template {
	out := Template{
		ID:        string(t.ID),
		Name:      t.Name,
		Exercises: make([]LiftEntry, 0, len(t.Entries)),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	for _, e := range t.Entries {
		out.Exercises = append(out.Exercises, LiftEntry{Exercise: e.Exercise, Weight: e.Weight, Reps: e.Reps})
	}
	return out
}

func profileFromDomain(p domain.Profile) Profile {
	return Profile{DisplayName: p.DisplayName, CalorieGoal: nullableInt(p.CalorieGoal)}
}

func calorieEntryFromDomain(e domain.CalorieEntry) CalorieEntry {
	return CalorieEntry{
		ID:        string(e.ID),
		FoodName:  e.FoodName,
		Calories:  e.Calories,
		Date:      openapi_types.Date{Time: e.Date},
		CreatedAt: e.CreatedAt,
	}
}

func calorieEntriesFromDomain(es []domain.CalorieEntry) []CalorieEntry {
	out := make([]CalorieEntry, 0, len(es))
	for _, e := range es {
		out = append(out, calorieEntryFromDomain(e))
	}
	return out
}

func calorieHistoryFromApp(days []calories.HistoryDay) []CalorieHistoryDay {
	out := make([]CalorieHistoryDay, 0, len(days))
	for _, d := range days {
		out = append(out, CalorieHistoryDay{
			Date:    openapi_types.Date{Time: d.Date},
			Entries: calorieEntriesFromDomain(d.Entries),
			Total:   d.Total,
		})
	}
	return out
}

func locationRecordFromDomain(r domain.LocationRecord) LocationRecord {
	return LocationRecord{
		ID:         string(r.ID),
		LifterName: r.LifterName,
		City:       r.Location.City,
		Latitude:   r.Location.Latitude,
		Longitude:  r.Location.Longitude,
		Exercise:   r.Exercise,
		Weight:     r.Weight,
		Reps:       r.Reps,
		CreatedAt:  r.CreatedAt,
	}
}

// nullableInt renders nil as an explicit JSON null.
func nullableInt(p *int) nullable.Nullable[int] {
	if p == nil {
		return nullable.NewNullNullable[int]()
	}
	return nullable.NewNullableWithValue(*p)
}
