package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterOptions struct {
	// AuthMiddleware guards every route except /healthz. Without it no request carries a
	// subject and authenticated routes answer 401.
	AuthMiddleware func(http.Handler) http.Handler
	// Logger enables per-request logging.
	Logger *slog.Logger
}

// NewRouter constructs the API HTTP router.
func NewRouter(s *Server) http.Handler {
	return NewRouterWithOptions(s, RouterOptions{})
}

func NewRouterWithOptions(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if opts.Logger != nil {
		r.Use(NewRequestLogger(opts.Logger))
	}
	r.Use(middleware.Recoverer)

	// Health endpoint is unauthenticated (used for infra checks).
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		if opts.AuthMiddleware != nil {
			r.Use(opts.AuthMiddleware)
		}

		r.Get("/exercises", s.ListExercises)
		r.Get("/exercises/common", s.ListCommonExercises)
		r.Post("/exercises/resolve", s.ResolveExercise)
		r.Post("/sets/check", s.CheckSet)

		r.Route("/workouts", func(r chi.Router) {
			r.Get("/", s.ListWorkouts)
			r.Post("/", s.CompleteWorkout)
			r.Get("/{workoutId}", s.GetWorkout)
			r.Delete("/{workoutId}", s.DeleteWorkout)
		})
		r.Get("/records", s.ListPersonalBests)
		r.Get("/records/history", s.GetLiftHistory)

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", s.ListTemplates)
			r.Post("/", s.CreateTemplate)
			r.Get("/{templateId}", s.GetTemplate)
			r.Patch("/{templateId}", s.UpdateTemplate)
			r.Delete("/{templateId}", s.DeleteTemplate)
		})

		r.Get("/profile", s.GetMyProfile)
		r.Put("/profile", s.PutMyProfile)
		r.Patch("/profile", s.PatchMyProfile)

		r.Route("/calories", func(r chi.Router) {
			r.Put("/goal", s.SetCalorieGoal)
			r.Get("/day", s.GetCalorieDay)
			r.Get("/history", s.GetCalorieHistory)
			r.Post("/entries", s.AddCalorieEntry)
			r.Delete("/entries/{entryId}", s.DeleteCalorieEntry)
		})

		r.Route("/location-records", func(r chi.Router) {
			r.Get("/", s.ListBestLocationRecords)
			r.Post("/", s.RecordLocationLift)
			r.Get("/exercises", s.ListLocationExercises)
		})
	})
	return r
}
