package domain

import (
	"math"
	"testing"
)

func TestClassifyPR(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		candidate Lift
		history   []Lift
		want      PRKind
	}{
		{
			name:      "first ever set is a weight PR",
			candidate: Lift{Weight: 135, Reps: 5},
			want:      PRKindWeight,
		},
		{
			name:      "equal weight more reps",
			candidate: Lift{Weight: 100, Reps: 12},
			history:   []Lift{{Weight: 100, Reps: 10}},
			want:      PRKindReps,
		},
		{
			name:      "lighter and fewer reps",
			candidate: Lift{Weight: 90, Reps: 8},
			history:   []Lift{{Weight: 100, Reps: 10}},
			want:      PRKindNone,
		},
		{
			name:      "heavier wins even with fewer reps",
			candidate: Lift{Weight: 110, Reps: 3},
			history:   []Lift{{Weight: 100, Reps: 5}},
			want:      PRKindWeight,
		},
		{
			name:      "equal weight equal reps",
			candidate: Lift{Weight: 100, Reps: 10},
			history:   []Lift{{Weight: 100, Reps: 10}},
			want:      PRKindNone,
		},
		{
			name:      "equal weight fewer reps",
			candidate: Lift{Weight: 100, Reps: 8},
			history:   []Lift{{Weight: 100, Reps: 10}},
			want:      PRKindNone,
		},
		{
			name:      "reps must beat every set at that weight",
			candidate: Lift{Weight: 100, Reps: 11},
			history:   []Lift{{Weight: 100, Reps: 10}, {Weight: 100, Reps: 12}, {Weight: 120, Reps: 1}},
			want:      PRKindNone,
		},
		{
			name:      "reps PR below the heaviest weight",
			candidate: Lift{Weight: 100, Reps: 13},
			history:   []Lift{{Weight: 100, Reps: 10}, {Weight: 100, Reps: 12}, {Weight: 120, Reps: 1}},
			want:      PRKindReps,
		},
		{
			name:      "fractional weights compare exactly",
			candidate: Lift{Weight: 135.00001, Reps: 1},
			history:   []Lift{{Weight: 135, Reps: 5}},
			want:      PRKindWeight,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyPR(tt.candidate, tt.history); got != tt.want {
				t.Fatalf("ClassifyPR(%+v, %+v)=%q, want %q", tt.candidate, tt.history, got, tt.want)
			}
		})
	}
}

func TestBestLift(t *testing.T) {
	t.Parallel()

	if _, ok := BestLift(nil); ok {
		t.Fatalf("BestLift(nil) ok=true, want false")
	}
	got, ok := BestLift([]Lift{{Weight: 100, Reps: 5}, {Weight: 120, Reps: 2}, {Weight: 120, Reps: 4}, {Weight: 110, Reps: 9}})
	if !ok || got != (Lift{Weight: 120, Reps: 4}) {
		t.Fatalf("BestLift()=%+v ok=%v", got, ok)
	}
}

func TestLift_Problems(t *testing.T) {
	t.Parallel()

	if p := (Lift{Weight: 60, Reps: 5}).Problems(); p != nil {
		t.Fatalf("valid lift problems=%v", p)
	}
	p := (Lift{Weight: 0, Reps: 0}).Problems()
	if p["weight"] == nil || p["reps"] == nil {
		t.Fatalf("problems=%v, want weight and reps", p)
	}
	if p := (Lift{Weight: math.Inf(1), Reps: 1}).Problems(); p["weight"] == nil {
		t.Fatalf("infinite weight accepted: %v", p)
	}
}
