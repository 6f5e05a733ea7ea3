package calorierepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/liftlog/liftlog-api/internal/adapters/postgres"
	"github.com/liftlog/liftlog-api/internal/domain"
	"github.com/liftlog/liftlog-api/internal/ports/out/calorierepo"
)

// Repo is a Postgres implementation of calorierepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Add(ctx context.Context, e calorierepo.Entry) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(e.ID))
	if err != nil {
		return fmt.Errorf("invalid calorie entry id: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO calorie_entries (id, owner_sub, food_name, calories, entry_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, string(e.Owner), e.FoodName, e.Calories, toDate(e.Date), e.CreatedAt.UTC())
	if err != nil {
		if postgres.IsUniqueViolation(err, "") {
			return calorierepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.CalorieEntryID) (calorierepo.Entry, error) {
	if r.pool == nil {
		return calorierepo.Entry{}, errors.New("nil postgres pool")
	}
	eid, err := uuid.Parse(string(id))
	if err != nil {
		return calorierepo.Entry{}, calorierepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		SELECT id, owner_sub, food_name, calories, entry_date, created_at
		FROM calorie_entries
		WHERE id = $1
	`, eid)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return calorierepo.Entry{}, calorierepo.ErrNotFound
		}
		return calorierepo.Entry{}, err
	}
	return e, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.CalorieEntryID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	eid, err := uuid.Parse(string(id))
	if err != nil {
		return calorierepo.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM calorie_entries WHERE id = $1`, eid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return calorierepo.ErrNotFound
	}
	return nil
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.SubjectID, rng calorierepo.Range) ([]calorierepo.Entry, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	var from, to pgtype.Date
	if rng.From != nil {
		from = toDate(*rng.From)
	}
	if rng.To != nil {
		to = toDate(*rng.To)
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_sub, food_name, calories, entry_date, created_at
		FROM calorie_entries
		WHERE owner_sub = $1
		  AND ($2::date IS NULL OR entry_date >= $2)
		  AND ($3::date IS NULL OR entry_date <= $3)
		ORDER BY entry_date DESC, created_at ASC, id ASC
	`, string(owner), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]calorierepo.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func toDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: domain.DateOnly(t), Valid: true}
}

func scanEntry(row interface{ Scan(dest ...any) error }) (calorierepo.Entry, error) {
	var (
		id    uuid.UUID
		owner string
		day   pgtype.Date
		e     calorierepo.Entry
	)
	if err := row.Scan(&id, &owner, &e.FoodName, &e.Calories, &day, &e.CreatedAt); err != nil {
		return calorierepo.Entry{}, err
	}
	e.ID = domain.CalorieEntryID(id.String())
	e.Owner = domain.SubjectID(owner)
	e.Date = domain.DateOnly(day.Time)
	e.CreatedAt = e.CreatedAt.UTC()
	return e, nil
}
