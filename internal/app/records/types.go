package records

import "github.com/liftlog/liftlog-api/internal/domain"

// PendingLift is a set entered earlier in the current session that has not been saved yet.
type PendingLift struct {
	Exercise string
	domain.Lift
}
