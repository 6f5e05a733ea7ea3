package exerciserepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/liftlog/liftlog-api/internal/adapters/postgres"
	"github.com/liftlog/liftlog-api/internal/ports/out/exerciserepo"
)

const nameKeyUnique = "exercises_name_key_unique"

// Repo is a Postgres implementation of exerciserepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) List(ctx context.Context) ([]exerciserepo.Exercise, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT name, name_key, created_at
		FROM exercises
		ORDER BY lower(name) ASC, name_key ASC
	`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *Repo) GetByKey(ctx context.Context, key string) (exerciserepo.Exercise, error) {
	if r.pool == nil {
		return exerciserepo.Exercise{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT name, name_key, created_at
		FROM exercises
		WHERE name_key = $1
	`, key)
	e, err := scanExercise(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return exerciserepo.Exercise{}, exerciserepo.ErrNotFound
		}
		return exerciserepo.Exercise{}, err
	}
	return e, nil
}

func (r *Repo) SearchByKey(ctx context.Context, fragment string, limit int) ([]exerciserepo.Exercise, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	// LIMIT NULL is unbounded.
	var lim *int
	if limit > 0 {
		lim = &limit
	}
	rows, err := r.pool.Query(ctx, `
		SELECT name, name_key, created_at
		FROM exercises
		WHERE strpos(name_key, $1) > 0
		ORDER BY length(name_key) ASC, name_key ASC
		LIMIT $2
	`, fragment, lim)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *Repo) Append(ctx context.Context, e exerciserepo.Exercise) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO exercises (name, name_key, created_at)
		VALUES ($1, $2, $3)
	`, e.Name, e.Key, e.CreatedAt.UTC())
	if err != nil {
		if postgres.IsUniqueViolation(err, nameKeyUnique) {
			return exerciserepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func collect(rows pgx.Rows) ([]exerciserepo.Exercise, error) {
	defer rows.Close()
	out := make([]exerciserepo.Exercise, 0)
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanExercise(row interface{ Scan(dest ...any) error }) (exerciserepo.Exercise, error) {
	var e exerciserepo.Exercise
	if err := row.Scan(&e.Name, &e.Key, &e.CreatedAt); err != nil {
		return exerciserepo.Exercise{}, err
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return e, nil
}
