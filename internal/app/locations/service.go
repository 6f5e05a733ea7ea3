package locations

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-api/internal/app/exercises"
	"github.com/liftlog/liftlog-api/internal/domain"
	clockport "github.com/liftlog/liftlog-api/internal/ports/out/clock"
	"github.com/liftlog/liftlog-api/internal/ports/out/locationrepo"
)

const anonymousLifter = "Anonymous"

type ExerciseResolver interface {
	Resolve(ctx context.Context, raw string) (exercises.Resolution, error)
}

// Profiles supplies the lifter name shown on a pin.
type Profiles interface {
	GetMyProfile(ctx context.Context, subject domain.SubjectID) (domain.Profile, error)
}

type Service struct {
	repo      locationrepo.Repository
	exercises ExerciseResolver
	profiles  Profiles
	clk       clockport.Clock

	newRecordID func() domain.LocationRecordID
}

func NewService(repo locationrepo.Repository, exercises ExerciseResolver, profiles Profiles, clk clockport.Clock) *Service {
	return &Service{
		repo:      repo,
		exercises: exercises,
		profiles:  profiles,
		clk:       clk,
		newRecordID: func() domain.LocationRecordID {
			return domain.LocationRecordID(uuid.NewString())
		},
	}
}

// Record pins a lift to a city.
func (s *Service) Record(ctx context.Context, subject domain.SubjectID, in RecordInput) (domain.LocationRecord, error) {
	details := map[string]any{}
	city := domain.NormalizeHumanName(in.City)
	if city == "" {
		details["city"] = "must be non-empty"
	}
	if !finiteIn(in.Latitude, -90, 90) {
		details["latitude"] = "must be between -90 and 90"
	}
	if !finiteIn(in.Longitude, -180, 180) {
		details["longitude"] = "must be between -180 and 180"
	}
	lift := domain.Lift{Weight: in.Weight, Reps: in.Reps}
	for k, v := range lift.Problems() {
		details[k] = v
	}
	if len(details) > 0 {
		return domain.LocationRecord{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid location record",
			Details: details,
		}
	}

	res, err := s.exercises.Resolve(ctx, in.Exercise)
	if err != nil {
		return domain.LocationRecord{}, err
	}

	lifter := anonymousLifter
	if p, err := s.profiles.GetMyProfile(ctx, subject); err != nil {
		return domain.LocationRecord{}, err
	} else if p.DisplayName != "" {
		lifter = p.DisplayName
	}

	rec := locationrepo.Record{
		ID:          s.newRecordID(),
		Owner:       subject,
		LifterName:  lifter,
		City:        city,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Exercise:    res.Exercise.Name,
		ExerciseKey: res.Exercise.Key,
		Weight:      lift.Weight,
		Reps:        lift.Reps,
		CreatedAt:   s.clk.Now(),
	}
	if err := s.repo.Add(ctx, rec); err != nil {
		return domain.LocationRecord{}, err
	}
	return toDomain(rec), nil
}

// Best returns, for every (city, exercise) pair inside the bounds, the heaviest pinned lift.
// On equal weight the earlier record is kept.
func (s *Service) Best(ctx context.Context, q BestQuery) ([]domain.LocationRecord, error) {
	var key string
	if ex := strings.TrimSpace(q.Exercise); ex != "" && !strings.EqualFold(ex, AllExercises) {
		key = domain.NormalizationKey(ex)
		if key == "" {
			return []domain.LocationRecord{}, nil
		}
	}

	recs, err := s.repo.List(ctx, key)
	if err != nil {
		return nil, err
	}

	type cityExercise struct{ city, key string }
	seen := make(map[cityExercise]struct{})
	out := make([]domain.LocationRecord, 0)
	// recs are heaviest first, so the first hit per pair is its best.
	for _, r := range recs {
		rec := toDomain(r)
		if q.Bounds != nil && !q.Bounds.Contains(rec.Location) {
			continue
		}
		k := cityExercise{city: strings.ToLower(r.City), key: r.ExerciseKey}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, rec)
	}
	return out, nil
}

// Exercises lists the exercise names that have at least one pinned record.
func (s *Service) Exercises(ctx context.Context) ([]string, error) {
	return s.repo.ListExercises(ctx)
}

func finiteIn(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}

func toDomain(r locationrepo.Record) domain.LocationRecord {
	return domain.LocationRecord{
		ID:         r.ID,
		Owner:      r.Owner,
		LifterName: r.LifterName,
		Location: domain.Location{
			City:      r.City,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		},
		Exercise:  r.Exercise,
		Lift:      domain.Lift{Weight: r.Weight, Reps: r.Reps},
		CreatedAt: r.CreatedAt,
	}
}
