package domain

import "math"

// Lift is one (weight, reps) pair as entered for a set.
type Lift struct {
	Weight float64
	Reps   int
}

// Problems describes why l cannot be recorded, keyed by field name. It is nil for a valid lift.
func (l Lift) Problems() map[string]any {
	var p map[string]any
	if math.IsNaN(l.Weight) || math.IsInf(l.Weight, 0) || l.Weight <= 0 {
		p = map[string]any{"weight": "must be a positive number"}
	}
	if l.Reps <= 0 {
		if p == nil {
			p = map[string]any{}
		}
		p["reps"] = "must be a positive integer"
	}
	return p
}

// PRKind classifies a newly entered lift against the lifter's history.
type PRKind string

const (
	PRKindWeight PRKind = "WEIGHT"
	PRKindReps   PRKind = "REPS"
	PRKindNone   PRKind = "NONE"
)

// ClassifyPR decides whether candidate is a personal record relative to history.
//
// Comparisons are strict. A weight PR beats every historical weight (vacuously true for an
// empty history) and takes precedence over a reps PR. A reps PR needs at least one earlier
// lift at exactly the same weight and must beat every rep count recorded there; a lighter
// weight that was never lifted before is not a record. Weights are compared with ==,
// without tolerance.
func ClassifyPR(candidate Lift, history []Lift) PRKind {
	weightPR := true
	repsPR := true
	sameWeight := 0
	for _, h := range history {
		if h.Weight >= candidate.Weight {
			weightPR = false
		}
		if h.Weight == candidate.Weight {
			sameWeight++
			if h.Reps >= candidate.Reps {
				repsPR = false
			}
		}
	}
	switch {
	case weightPR:
		return PRKindWeight
	case repsPR && sameWeight > 0:
		return PRKindReps
	default:
		return PRKindNone
	}
}

// PersonalBest is the best recorded lift for one canonical exercise:
// the heaviest weight, and the most reps performed at that weight.
type PersonalBest struct {
	Exercise string
	Lift     Lift
}

// BestLift returns the heaviest lift, breaking ties by reps. ok is false for an empty slice.
func BestLift(lifts []Lift) (best Lift, ok bool) {
	for i, l := range lifts {
		if i == 0 || l.Weight > best.Weight || (l.Weight == best.Weight && l.Reps > best.Reps) {
			best = l
		}
	}
	return best, len(lifts) > 0
}
