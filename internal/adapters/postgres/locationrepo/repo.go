package locationrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/liftlog/liftlog-api/internal/adapters/postgres"
	"github.com/liftlog/liftlog-api/internal/domain"
	"github.com/liftlog/liftlog-api/internal/ports/out/locationrepo"
)

// Repo is a Postgres implementation of locationrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Add(ctx context.Context, rec locationrepo.Record) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(rec.ID))
	if err != nil {
		return fmt.Errorf("invalid location record id: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO location_records (
			id,
			owner_sub,
			lifter_name,
			city,
			latitude,
			longitude,
			exercise,
			exercise_key,
			weight,
			reps,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		id,
		string(rec.Owner),
		rec.LifterName,
		rec.City,
		rec.Latitude,
		rec.Longitude,
		rec.Exercise,
		rec.ExerciseKey,
		rec.Weight,
		rec.Reps,
		rec.CreatedAt.UTC(),
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, "") {
			return locationrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) List(ctx context.Context, exerciseKey string) ([]locationrepo.Record, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_sub, lifter_name, city, latitude, longitude, exercise, exercise_key, weight, reps, created_at
		FROM location_records
		WHERE ($1 = '' OR exercise_key = $1)
		ORDER BY weight DESC, created_at ASC, id ASC
	`, exerciseKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]locationrepo.Record, 0)
	for rows.Next() {
		var (
			id    uuid.UUID
			owner string
			rec   locationrepo.Record
		)
		if err := rows.Scan(
			&id,
			&owner,
			&rec.LifterName,
			&rec.City,
			&rec.Latitude,
			&rec.Longitude,
			&rec.Exercise,
			&rec.ExerciseKey,
			&rec.Weight,
			&rec.Reps,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		rec.ID = domain.LocationRecordID(id.String())
		rec.Owner = domain.SubjectID(owner)
		rec.CreatedAt = rec.CreatedAt.UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repo) ListExercises(ctx context.Context) ([]string, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT exercise
		FROM location_records
		ORDER BY exercise ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
