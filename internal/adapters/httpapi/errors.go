package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"

	"github.com/liftlog/liftlog-api/internal/app/calories"
	"github.com/liftlog/liftlog-api/internal/app/exercises"
	"github.com/liftlog/liftlog-api/internal/app/locations"
	"github.com/liftlog/liftlog-api/internal/app/profiles"
	"github.com/liftlog/liftlog-api/internal/app/records"
	"github.com/liftlog/liftlog-api/internal/app/templates"
	"github.com/liftlog/liftlog-api/internal/app/workouts"
)

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code      string                            `json:"code"`
	Message   string                            `json:"message"`
	Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
	RequestId nullable.Nullable[string]         `json:"requestId,omitempty"`
}

func apiError(ctx context.Context, code string, message string, details map[string]any) ErrorResponse {
	var er ErrorResponse
	er.Error.Code = code
	er.Error.Message = message
	if details != nil {
		er.Error.Details = nullable.NewNullableWithValue(details)
	}
	if rid := middleware.GetReqID(ctx); rid != "" {
		er.Error.RequestId = nullable.NewNullableWithValue(rid)
	}
	return er
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details map[string]any) {
	writeJSON(w, status, apiError(r.Context(), code, message, details))
}

// appError is the common shape of the per-service application errors.
type appError struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func asAppError(err error) (appError, bool) {
	if e := (*exercises.Error)(nil); errors.As(err, &e) {
		return appError(*e), true
	}
	if e := (*records.Error)(nil); errors.As(err, &e) {
		return appError(*e), true
	}
	if e := (*workouts.Error)(nil); errors.As(err, &e) {
		return appError(*e), true
	}
	if e := (*templates.Error)(nil); errors.As(err, &e) {
		return appError(*e), true
	}
	if e := (*profiles.Error)(nil); errors.As(err, &e) {
		return appError(*e), true
	}
	if e := (*calories.Error)(nil); errors.As(err, &e) {
		return appError(*e), true
	}
	if e := (*locations.Error)(nil); errors.As(err, &e) {
		return appError(*e), true
	}
	return appError{}, false
}

// writeServiceError renders application errors with their own status and hides everything
// else behind a 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if ae, ok := asAppError(err); ok && ae.Status >= 400 && ae.Status < 500 {
		writeError(w, r, ae.Status, ae.Code, ae.Message, ae.Details)
		return
	}
	s.log.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"err", err,
	)
	writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a single JSON document into dst. It writes the error response itself and
// reports false when the body is missing or malformed.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "missing request body", nil)
		return false
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "malformed JSON body", map[string]any{"reason": err.Error()})
		return false
	}
	return true
}

const maxBodyBytes = 1 << 20
