package httpapi

import (
	"net/http"

	"github.com/liftlog/liftlog-api/internal/app/records"
	"github.com/liftlog/liftlog-api/internal/app/workouts"
	"github.com/liftlog/liftlog-api/internal/domain"
	"github.com/liftlog/liftlog-api/internal/platform/seed"
)

func (s *Server) ListExercises(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSubject(w, r); !ok {
		return
	}
	es, err := s.Exercises.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]Exercise, 0, len(es))
	for _, e := range es {
		out = append(out, exerciseFromDomain(e))
	}
	writeJSON(w, http.StatusOK, ListExercisesResponse{Exercises: out})
}

// ListCommonExercises serves the built-in picker list grouped by muscle group.
func (s *Server) ListCommonExercises(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSubject(w, r); !ok {
		return
	}
	cats, err := seed.Categories()
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]ExerciseCategory, 0, len(cats))
	for _, c := range cats {
		out = append(out, ExerciseCategory{Name: c.Name, Exercises: append([]string(nil), c.Exercises...)})
	}
	writeJSON(w, http.StatusOK, ListCommonExercisesResponse{Categories: out})
}

func (s *Server) ResolveExercise(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSubject(w, r); !ok {
		return
	}
	var body ResolveExerciseRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	res, err := s.Exercises.Resolve(r.Context(), body.Name)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ResolveExerciseResponse{
		Exercise: exerciseFromDomain(res.Exercise),
		Created:  res.Created,
		Degraded: res.Degraded,
	})
}

func (s *Server) CheckSet(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	var body CheckSetRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	in := workouts.CheckSetInput{
		Exercise: body.Exercise,
		Weight:   body.Weight,
		Reps:     body.Reps,
		Pending:  make([]records.PendingLift, 0, len(body.PendingSets)),
	}
	for _, p := range body.PendingSets {
		in.Pending = append(in.Pending, records.PendingLift{
			Exercise: p.Exercise,
			Lift:     domain.Lift{Weight: p.Weight, Reps: p.Reps},
		})
	}

	res, err := s.Workouts.CheckSet(r.Context(), sub, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CheckSetResponse{
		Exercise: exerciseFromDomain(res.Exercise),
		Created:  res.Created,
		Degraded: res.Degraded,
		PR:       string(res.PR),
	})
}
