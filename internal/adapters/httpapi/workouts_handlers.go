package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/liftlog/liftlog-api/internal/app/workouts"
	"github.com/liftlog/liftlog-api/internal/domain"
)

func (s *Server) CompleteWorkout(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	var body CompleteWorkoutRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	bodyHash, err := hashCompleteWorkoutBody(body)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	st, done := s.beginIdempotent(w, r, sub, "/workouts", bodyHash)
	if done {
		return
	}

	in := workouts.CompleteWorkoutInput{Name: body.Name, Sets: make([]workouts.SetInput, 0, len(body.Sets))}
	for _, set := range body.Sets {
		in.Sets = append(in.Sets, workouts.SetInput{Exercise: set.Exercise, Weight: set.Weight, Reps: set.Reps})
	}
	cw, err := s.Workouts.CompleteWorkout(r.Context(), sub, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.finishIdempotent(w, r, st, http.StatusCreated, WorkoutResponse{
		Workout: workoutFromDomain(cw.Workout, cw.Stats, cw.PRs),
	})
}

func (s *Server) ListWorkouts(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	as, err := s.Workouts.ListActivity(r.Context(), sub)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]Workout, 0, len(as))
	for _, a := range as {
		out = append(out, activityFromApp(a))
	}
	writeJSON(w, http.StatusOK, ListWorkoutsResponse{Workouts: out})
}

func (s *Server) GetWorkout(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	a, err := s.Workouts.GetWorkout(r.Context(), sub, domain.WorkoutID(chi.URLParam(r, "workoutId")))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, WorkoutResponse{Workout: activityFromApp(a)})
}

func (s *Server) DeleteWorkout(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	if err := s.Workouts.DeleteWorkout(r.Context(), sub, domain.WorkoutID(chi.URLParam(r, "workoutId"))); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) ListPersonalBests(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	pbs, err := s.Records.PersonalBests(r.Context(), sub)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]PersonalBest, 0, len(pbs))
	for _, pb := range pbs {
		out = append(out, PersonalBest{Exercise: pb.Exercise, Weight: pb.Lift.Weight, Reps: pb.Lift.Reps})
	}
	writeJSON(w, http.StatusOK, ListPersonalBestsResponse{Records: out})
}

func (s *Server) GetLiftHistory(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	exercise := strings.TrimSpace(r.URL.Query().Get("exercise"))
	if exercise == "" {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "missing exercise", map[string]any{"exercise": "required"})
		return
	}
	lifts, err := s.Records.History(r.Context(), sub, exercise)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]Lift, 0, len(lifts))
	for _, l := range lifts {
		out = append(out, Lift{Weight: l.Weight, Reps: l.Reps})
	}
	writeJSON(w, http.StatusOK, LiftHistoryResponse{Exercise: exercise, Lifts: out})
}

// hashCompleteWorkoutBody canonicalizes fields that are normalized on write, so a retry
// with different whitespace still replays.
func hashCompleteWorkoutBody(b CompleteWorkoutRequest) (string, error) {
	canon := CompleteWorkoutRequest{
		Name: domain.NormalizeHumanName(b.Name),
		Sets: make([]LiftEntry, 0, len(b.Sets)),
	}
	for _, s := range b.Sets {
		canon.Sets = append(canon.Sets, LiftEntry{
			Exercise: strings.TrimSpace(s.Exercise),
			Weight:   s.Weight,
			Reps:     s.Reps,
		})
	}
	return hashBody(canon)
}
