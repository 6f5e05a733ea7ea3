package httpapi

import (
	"net/http"

	"github.com/oapi-codegen/nullable"

	"github.com/liftlog/liftlog-api/internal/app/profiles"
)

func (s *Server) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	p, err := s.Profiles.GetMyProfile(r.Context(), sub)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ProfileResponse{Profile: profileFromDomain(p)})
}

func (s *Server) PutMyProfile(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	var body PutProfileRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	p, err := s.Profiles.UpsertMyProfile(r.Context(), sub, body.DisplayName)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ProfileResponse{Profile: profileFromDomain(p)})
}

func (s *Server) PatchMyProfile(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	var body PatchProfileRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	p, err := s.Profiles.UpdateMyProfile(r.Context(), sub, profiles.UpdateMyProfileInput{
		DisplayName: optionalFromNullableProfiles(body.DisplayName),
		CalorieGoal: optionalFromNullableProfiles(body.CalorieGoal),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ProfileResponse{Profile: profileFromDomain(p)})
}

func optionalFromNullableProfiles[T any](n nullable.Nullable[T]) profiles.Optional[T] {
	if !n.IsSpecified() {
		return profiles.Unspecified[T]()
	}
	if n.IsNull() {
		return profiles.Null[T]()
	}
	v, err := n.Get()
	if err != nil {
		return profiles.Unspecified[T]()
	}
	return profiles.Some(v)
}
