package idempotency

import (
	"context"
	"time"

	"github.com/liftlog/liftlog-api/internal/domain"
)

// Key is the caller-provided Idempotency-Key header value.
type Key string

// Fingerprint identifies a retried request: key + subject + route + request body hash.
// Route is the method-less path template, e.g. "/workouts".
type Fingerprint struct {
	Key      Key
	Subject  domain.SubjectID
	Method   string
	Route    string
	BodyHash string
}

// Record is a stored response that can be replayed for a duplicate request.
// A record with StatusCode 0 is a marker holding the body hash first seen for a key.
type Record struct {
	StatusCode  int
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}

// Store persists idempotency records so that retried workout submissions do not
// create duplicate workouts.
type Store interface {
	Get(ctx context.Context, fp Fingerprint) (Record, bool, error)
	// Put overwrites any existing record for fp.
	Put(ctx context.Context, fp Fingerprint, rec Record) error
	// DeleteBefore drops records created before cutoff and reports how many were removed.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int, error)
}
