package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/liftlog/liftlog-api/internal/domain"
	"github.com/liftlog/liftlog-api/internal/ports/out/idempotency"
)

func TestStore_GetReturnsCopyOfBody(t *testing.T) {
	t.Parallel()

	s := NewStore()
	fp := idempotency.Fingerprint{
		Key:      "k1",
		Subject:  domain.SubjectID("sub-1"),
		Method:   "POST",
		Route:    "/workouts",
		BodyHash: "abc123",
	}
	body := []byte(`{"ok":true}`)
	if err := s.Put(context.Background(), fp, idempotency.Record{StatusCode: 201, Body: body, CreatedAt: time.Unix(1, 0)}); err != nil {
		t.Fatalf("Put() err=%v", err)
	}
	body[0] = 'X'

	got, ok, err := s.Get(context.Background(), fp)
	if err != nil || !ok {
		t.Fatalf("Get() ok=%v err=%v", ok, err)
	}
	if string(got.Body) != `{"ok":true}` {
		t.Fatalf("Body=%q, want stored copy", got.Body)
	}
	got.Body[0] = 'Y'
	again, _, _ := s.Get(context.Background(), fp)
	if string(again.Body) != `{"ok":true}` {
		t.Fatalf("Body mutated through Get result: %q", again.Body)
	}
}
