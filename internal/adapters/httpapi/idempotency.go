package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/liftlog/liftlog-api/internal/domain"
	"github.com/liftlog/liftlog-api/internal/ports/out/idempotency"
)

const idempotencyKeyHeader = "Idempotency-Key"

// idemState carries the response fingerprint of a request that opted into replay.
type idemState struct {
	fp     idempotency.Fingerprint
	active bool
}

// beginIdempotent applies Idempotency-Key handling:
// - replay if same subject+key+route+bodyHash already has a stored response
// - reject if same subject+key+route was first seen with a different bodyHash (409)
//
// It reports done=true when it has already written the response.
func (s *Server) beginIdempotent(w http.ResponseWriter, r *http.Request, sub domain.SubjectID, route string, bodyHash string) (st idemState, done bool) {
	key := strings.TrimSpace(r.Header.Get(idempotencyKeyHeader))
	if key == "" || s.Idem == nil {
		return idemState{}, false
	}
	ctx := r.Context()
	metaFP := idempotency.Fingerprint{
		Key:     idempotency.Key(key),
		Subject: sub,
		Method:  r.Method,
		Route:   route,
	}
	meta, ok, err := s.Idem.Get(ctx, metaFP)
	if err != nil {
		s.writeServiceError(w, r, err)
		return idemState{}, true
	}
	if ok {
		if string(meta.Body) != bodyHash {
			writeError(w, r, http.StatusConflict, "IDEMPOTENCY_KEY_REUSE", "idempotency key reuse with different payload", nil)
			return idemState{}, true
		}
	} else if err := s.Idem.Put(ctx, metaFP, idempotency.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte(bodyHash),
		CreatedAt:   s.Clock.Now(),
	}); err != nil {
		s.writeServiceError(w, r, err)
		return idemState{}, true
	}

	respFP := metaFP
	respFP.BodyHash = bodyHash
	rec, ok, err := s.Idem.Get(ctx, respFP)
	if err != nil {
		s.writeServiceError(w, r, err)
		return idemState{}, true
	}
	if ok && rec.StatusCode != 0 && strings.HasPrefix(rec.ContentType, "application/json") {
		w.Header().Set("Content-Type", rec.ContentType)
		w.Header().Set("Idempotent-Replayed", "true")
		w.WriteHeader(rec.StatusCode)
		_, _ = w.Write(rec.Body)
		return idemState{}, true
	}
	return idemState{fp: respFP, active: true}, false
}

// finishIdempotent stores a successful response for replay and then writes it.
// A failed store is logged; the client still gets its response.
func (s *Server) finishIdempotent(w http.ResponseWriter, r *http.Request, st idemState, status int, payload any) {
	if !st.active {
		writeJSON(w, status, payload)
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := s.Idem.Put(r.Context(), st.fp, idempotency.Record{
		StatusCode:  status,
		ContentType: "application/json",
		Body:        b,
		CreatedAt:   s.Clock.Now(),
	}); err != nil {
		s.log.WarnContext(r.Context(), "idempotency record not stored", "route", st.fp.Route, "err", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}

func hashBody(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
