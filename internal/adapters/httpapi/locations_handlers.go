package httpapi

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/liftlog/liftlog-api/internal/app/locations"
	"github.com/liftlog/liftlog-api/internal/domain"
)

func (s *Server) ListBestLocationRecords(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSubject(w, r); !ok {
		return
	}
	q := r.URL.Query()
	bounds, problems := boundsFromQuery(q)
	if problems != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid bounds", problems)
		return
	}
	recs, err := s.Locations.Best(r.Context(), locations.BestQuery{
		Exercise: q.Get("exercise"),
		Bounds:   bounds,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]LocationRecord, 0, len(recs))
	for _, rec := range recs {
		out = append(out, locationRecordFromDomain(rec))
	}
	writeJSON(w, http.StatusOK, ListLocationRecordsResponse{Records: out})
}

func (s *Server) RecordLocationLift(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	var body RecordLocationLiftRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	rec, err := s.Locations.Record(r.Context(), sub, locations.RecordInput{
		City:      body.City,
		Latitude:  body.Latitude,
		Longitude: body.Longitude,
		Exercise:  body.Exercise,
		Weight:    body.Weight,
		Reps:      body.Reps,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, LocationRecordResponse{Record: locationRecordFromDomain(rec)})
}

func (s *Server) ListLocationExercises(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSubject(w, r); !ok {
		return
	}
	names, err := s.Locations.Exercises(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ListNamesResponse{Exercises: names})
}

var boundParams = []string{"minLat", "maxLat", "minLng", "maxLng"}

// boundsFromQuery reads the map viewport. All four parameters are given together or not at
// all; nil bounds means the whole map.
func boundsFromQuery(q url.Values) (*domain.Bounds, map[string]any) {
	vals := make(map[string]float64, len(boundParams))
	problems := map[string]any{}
	for _, p := range boundParams {
		raw := strings.TrimSpace(q.Get(p))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			problems[p] = "must be a number"
			continue
		}
		vals[p] = v
	}
	if len(problems) > 0 {
		return nil, problems
	}
	switch len(vals) {
	case 0:
		return nil, nil
	case len(boundParams):
	default:
		return nil, map[string]any{"bounds": "minLat, maxLat, minLng and maxLng must be given together"}
	}
	b := &domain.Bounds{MinLat: vals["minLat"], MaxLat: vals["maxLat"], MinLng: vals["minLng"], MaxLng: vals["maxLng"]}
	if b.MinLat > b.MaxLat {
		return nil, map[string]any{"bounds": "minLat must not exceed maxLat"}
	}
	// minLng > maxLng is a box across the antimeridian.
	if b.MinLng < -180 || b.MinLng > 180 || b.MaxLng < -180 || b.MaxLng > 180 {
		return nil, map[string]any{"bounds": "longitudes must be within [-180, 180]"}
	}
	return b, nil
}
