package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/nullable"

	"github.com/liftlog/liftlog-api/internal/app/templates"
	"github.com/liftlog/liftlog-api/internal/domain"
)

func (s *Server) ListTemplates(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	ts, err := s.Templates.ListTemplates(r.Context(), sub)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]Template, 0, len(ts))
	for _, t := range ts {
		out = append(out, templateFromDomain(t))
	}
	writeJSON(w, http.StatusOK, ListTemplatesResponse{Templates: out})
}

func (s *Server) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	var body CreateTemplateRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	t, err := s.Templates.CreateTemplate(r.Context(), sub, templates.CreateTemplateInput{
		Name:    body.Name,
		Entries: entryInputsFromWire(body.Exercises),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, TemplateResponse{Template: templateFromDomain(t)})
}

func (s *Server) GetTemplate(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	t, err := s.Templates.GetTemplate(r.Context(), sub, domain.TemplateID(chi.URLParam(r, "templateId")))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TemplateResponse{Template: templateFromDomain(t)})
}

func (s *Server) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	var body UpdateTemplateRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	in := templates.UpdateTemplateInput{
		Name:    optionalStringFromNullableTemplates(body.Name),
		Entries: optionalEntriesFromNullable(body.Exercises),
	}
	t, err := s.Templates.UpdateTemplate(r.Context(), sub, domain.TemplateID(chi.URLParam(r, "templateId")), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TemplateResponse{Template: templateFromDomain(t)})
}

func (s *Server) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	if err := s.Templates.DeleteTemplate(r.Context(), sub, domain.TemplateID(chi.URLParam(r, "templateId"))); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func entryInputsFromWire(es []LiftEntry) []templates.EntryInput {
	out := make([]templates.EntryInput, 0, len(es))
	for _, e := range es {
		out = append(out, templates.EntryInput{Exercise: e.Exercise, Weight: e.Weight, Reps: e.Reps})
	}
	return out
}

func optionalStringFromNullableTemplates(n nullable.Nullable[string]) templates.Optional[string] {
	if !n.IsSpecified() {
		return templates.Unspecified[string]()
	}
	if n.IsNull() {
		return templates.Null[string]()
	}
	v, err := n.Get()
	if err != nil {
		return templates.Unspecified[string]()
	}
	return templates.Some(v)
}

func optionalEntriesFromNullable(n nullable.Nullable[[]LiftEntry]) templates.Optional[[]templates.EntryInput] {
	if !n.IsSpecified() {
		return templates.Unspecified[[]templates.EntryInput]()
	}
	if n.IsNull() {
		return templates.Null[[]templates.EntryInput]()
	}
	v, err := n.Get()
	if err != nil {
		return templates.Unspecified[[]templates.EntryInput]()
	}
	return templates.Some(entryInputsFromWire(v))
}
