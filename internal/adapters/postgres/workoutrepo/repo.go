package workoutrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/liftlog/liftlog-api/internal/adapters/postgres"
	"github.com/liftlog/liftlog-api/internal/domain"
	"github.com/liftlog/liftlog-api/internal/ports/out/workoutrepo"
)

// Repo is a Postgres implementation of workoutrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, w workoutrepo.Workout) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(w.ID))
	if err != nil {
		return fmt.Errorf("invalid workout id: %w", err)
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO workouts (id, owner_sub, name, created_at)
			VALUES ($1, $2, $3, $4)
		`, id, string(w.Owner), w.Name, w.CreatedAt.UTC())
		if err != nil {
			if postgres.IsUniqueViolation(err, "") {
				return workoutrepo.ErrAlreadyExists
			}
			return err
		}

		batch := &pgx.Batch{}
		for _, s := range w.Sets {
			batch.Queue(`
				INSERT INTO workout_sets (workout_id, set_number, exercise, exercise_key, weight, reps)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, id, s.Number, s.Exercise, s.ExerciseKey, s.Weight, s.Reps)
		}
		if batch.Len() == 0 {
			return nil
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

func (r *Repo) GetByID(ctx context.Context, id domain.WorkoutID) (workoutrepo.Workout, error) {
	if r.pool == nil {
		return workoutrepo.Workout{}, errors.New("nil postgres pool")
	}
	wid, err := uuid.Parse(string(id))
	if err != nil {
		return workoutrepo.Workout{}, workoutrepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		SELECT id, owner_sub, name, created_at
		FROM workouts
		WHERE id = $1
	`, wid)
	w, err := scanWorkout(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workoutrepo.Workout{}, workoutrepo.ErrNotFound
		}
		return workoutrepo.Workout{}, err
	}
	sets, err := r.loadSets(ctx, []uuid.UUID{wid})
	if err != nil {
		return workoutrepo.Workout{}, err
	}
	if ss, ok := sets[wid]; ok {
		w.Sets = ss
	}
	return w, nil
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.SubjectID) ([]workoutrepo.Workout, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_sub, name, created_at
		FROM workouts
		WHERE owner_sub = $1
		ORDER BY created_at DESC, id ASC
	`, string(owner))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]workoutrepo.Workout, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
		ids = append(ids, uuid.MustParse(string(w.ID)))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if len(ids) == 0 {
		return out, nil
	}
	sets, err := r.loadSets(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if ss, ok := sets[uuid.MustParse(string(out[i].ID))]; ok {
			out[i].Sets = ss
		}
	}
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.WorkoutID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	wid, err := uuid.Parse(string(id))
	if err != nil {
		return workoutrepo.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM workouts WHERE id = $1`, wid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return workoutrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) ListLiftsByExerciseKey(ctx context.Context, owner domain.SubjectID, key string) ([]domain.Lift, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT s.weight, s.reps
		FROM workout_sets s
		JOIN workouts w ON w.id = s.workout_id
		WHERE w.owner_sub = $1
		  AND s.exercise_key = $2
	`, string(owner), key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Lift, 0)
	for rows.Next() {
		var l domain.Lift
		if err := rows.Scan(&l.Weight, &l.Reps); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repo) ListSetsByOwner(ctx context.Context, owner domain.SubjectID) ([]workoutrepo.Set, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT s.set_number, s.exercise, s.exercise_key, s.weight, s.reps
		FROM workout_sets s
		JOIN workouts w ON w.id = s.workout_id
		WHERE w.owner_sub = $1
	`, string(owner))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]workoutrepo.Set, 0)
	for rows.Next() {
		var s workoutrepo.Set
		if err := rows.Scan(&s.Number, &s.Exercise, &s.ExerciseKey, &s.Weight, &s.Reps); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) loadSets(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]workoutrepo.Set, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT workout_id, set_number, exercise, exercise_key, weight, reps
		FROM workout_sets
		WHERE workout_id = ANY($1::uuid[])
		ORDER BY workout_id, set_number ASC
	`, uuidStrings(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]workoutrepo.Set, len(ids))
	for rows.Next() {
		var wid uuid.UUID
		var s workoutrepo.Set
		if err := rows.Scan(&wid, &s.Number, &s.Exercise, &s.ExerciseKey, &s.Weight, &s.Reps); err != nil {
			return nil, err
		}
		out[wid] = append(out[wid], s)
	}
	return out, rows.Err()
}

func scanWorkout(row interface{ Scan(dest ...any) error }) (workoutrepo.Workout, error) {
	var (
		id    uuid.UUID
		owner string
		w     workoutrepo.Workout
	)
	if err := row.Scan(&id, &owner, &w.Name, &w.CreatedAt); err != nil {
		return workoutrepo.Workout{}, err
	}
	w.ID = domain.WorkoutID(id.String())
	w.Owner = domain.SubjectID(owner)
	w.CreatedAt = w.CreatedAt.UTC()
	w.Sets = []workoutrepo.Set{}
	return w, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
