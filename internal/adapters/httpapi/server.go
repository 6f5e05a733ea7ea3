package httpapi

import (
	"log/slog"

	"github.com/liftlog/liftlog-api/internal/app/calories"
	"github.com/liftlog/liftlog-api/internal/app/exercises"
	"github.com/liftlog/liftlog-api/internal/app/locations"
	"github.com/liftlog/liftlog-api/internal/app/profiles"
	"github.com/liftlog/liftlog-api/internal/app/records"
	"github.com/liftlog/liftlog-api/internal/app/templates"
	"github.com/liftlog/liftlog-api/internal/app/workouts"
	"github.com/liftlog/liftlog-api/internal/platform/clock"
	clockport "github.com/liftlog/liftlog-api/internal/ports/out/clock"
	"github.com/liftlog/liftlog-api/internal/ports/out/idempotency"
)

// Services bundles the application services the HTTP adapter serves.
type Services struct {
	Exercises *exercises.Service
	Records   *records.Service
	Workouts  *workouts.Service
	Templates *templates.Service
	Profiles  *profiles.Service
	Calories  *calories.Service
	Locations *locations.Service
}

// Server is the HTTP adapter. Handlers translate wire types to service inputs and map
// application errors to the error envelope.
type Server struct {
	Services

	Idem  idempotency.Store
	Clock clockport.Clock

	log *slog.Logger
}

// NewServer wires the adapter. idem may be nil to disable Idempotency-Key replay, and log
// may be nil to use slog.Default.
func NewServer(svcs Services, idem idempotency.Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		Services: svcs,
		Idem:     idem,
		Clock:    clock.NewSystemClock(),
		log:      log,
	}
}
