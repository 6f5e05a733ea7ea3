package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/liftlog/liftlog-api/internal/app/calories"
	"github.com/liftlog/liftlog-api/internal/domain"
)

func (s *Server) SetCalorieGoal(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	var body CalorieGoalRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	goal, err := s.Calories.SetGoal(r.Context(), sub, body.CalorieGoal)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CalorieGoalResponse{CalorieGoal: goal})
}

func (s *Server) GetCalorieDay(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	var date *time.Time
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		d, err := time.Parse(openapi_types.DateFormat, raw)
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid date", map[string]any{"date": "must be YYYY-MM-DD"})
			return
		}
		date = &d
	}
	day, err := s.Calories.Day(r.Context(), sub, date)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CalorieDayResponse{
		Date:      openapi_types.Date{Time: day.Date},
		Entries:   calorieEntriesFromDomain(day.Entries),
		Total:     day.Total,
		Goal:      nullableInt(day.Goal),
		Remaining: nullableInt(day.Remaining),
	})
}

func (s *Server) GetCalorieHistory(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	days, err := s.Calories.History(r.Context(), sub)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CalorieHistoryResponse{Days: calorieHistoryFromApp(days)})
}

func (s *Server) AddCalorieEntry(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	var body AddCalorieEntryRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	in := calories.AddEntryInput{FoodName: body.FoodName, Calories: body.Calories}
	if body.Date != nil {
		d := body.Date.Time
		in.Date = &d
	}
	e, err := s.Calories.AddEntry(r.Context(), sub, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, CalorieEntryResponse{Entry: calorieEntryFromDomain(e)})
}

func (s *Server) DeleteCalorieEntry(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	if err := s.Calories.DeleteEntry(r.Context(), sub, domain.CalorieEntryID(chi.URLParam(r, "entryId"))); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
